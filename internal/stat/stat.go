// Package stat counts sales of one machine.
// Each Stat owns private prometheus registry, nothing is exposed over network.
package stat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/temoto/juicebox/currency"
	"github.com/temoto/juicebox/log2"
)

const namespace = "juicebox"

const (
	ReasonUnderpaid = "underpaid"
	ReasonUser      = "user"
)

type Stat struct {
	reg        *prometheus.Registry
	sales      *prometheus.CounterVec
	items      *prometheus.CounterVec
	revenue    prometheus.Counter
	cancels    *prometheus.CounterVec
	outOfStock *prometheus.CounterVec
	balance    prometheus.Gauge
}

func NewStat() *Stat {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Stat{
		reg: reg,
		sales: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_total",
			Help:      "Number of committed purchases.",
		}, []string{"product"}),
		items: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_sold_total",
			Help:      "Number of dispensed items.",
		}, []string{"product"}),
		revenue: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revenue_total",
			Help:      "Settled cost in lowest currency unit.",
		}),
		cancels: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancel_total",
			Help:      "Number of cancelled purchases.",
		}, []string{"reason"}),
		outOfStock: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "out_of_stock_total",
			Help:      "Selections of empty products.",
		}, []string{"product"}),
		balance: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "register_balance",
			Help:      "Cash register balance in lowest currency unit.",
		}),
	}
}

func (self *Stat) Registry() *prometheus.Registry { return self.reg }

func (self *Stat) Sale(product string, quantity uint32, cost currency.Amount) {
	self.sales.WithLabelValues(product).Inc()
	self.items.WithLabelValues(product).Add(float64(quantity))
	self.revenue.Add(float64(cost))
}

func (self *Stat) Cancel(reason string)      { self.cancels.WithLabelValues(reason).Inc() }
func (self *Stat) OutOfStock(product string) { self.outOfStock.WithLabelValues(product).Inc() }
func (self *Stat) SetBalance(a currency.Amount) {
	self.balance.Set(float64(a))
}

// Lines returns sorted "name{labels} value" for every series.
func (self *Stat) Lines() ([]string, error) {
	mfs, err := self.reg.Gather()
	if err != nil {
		return nil, errors.Annotate(err, "stat gather")
	}
	lines := make([]string, 0, 16)
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			lines = append(lines, fmt.Sprintf("%s%s %g", mf.GetName(), formatLabels(m.GetLabel()), metricValue(m)))
		}
	}
	sort.Strings(lines)
	return lines, nil
}

func (self *Stat) Report(log *log2.Log) {
	lines, err := self.Lines()
	if err != nil {
		log.Error(err)
		return
	}
	for _, line := range lines {
		log.Infof("stat %s", line)
	}
}

func formatLabels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = fmt.Sprintf("%s=%q", p.GetName(), p.GetValue())
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func metricValue(m *dto.Metric) float64 {
	switch {
	case m.Counter != nil:
		return m.GetCounter().GetValue()
	case m.Gauge != nil:
		return m.GetGauge().GetValue()
	}
	return 0
}
