package inventory

import (
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/juicebox/helpers"
	inventory_config "github.com/temoto/juicebox/internal/inventory/config"
	"github.com/temoto/juicebox/log2"
)

// Catalog is ordered list of dispensers, index is product identity.
// Membership is fixed after NewCatalog.
type Catalog struct {
	log *log2.Log
	ds  []*Dispenser
}

func NewCatalog(products []inventory_config.Product, log *log2.Log) (*Catalog, error) {
	self := &Catalog{
		log: log,
		ds:  make([]*Dispenser, 0, len(products)),
	}
	errs := make([]error, 0)
	seen := make(map[string]struct{}, len(products))
	for _, pc := range products {
		if _, ok := seen[pc.Name]; ok {
			errs = append(errs, errors.Errorf("product=%s already registered", pc.Name))
			continue
		}
		d, err := NewDispenser(pc.Name, pc.Stock, pc.Price)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		seen[pc.Name] = struct{}{}
		self.ds = append(self.ds, d)
		self.log.Debugf("catalog add %s", d.String())
	}
	if len(products) == 0 {
		errs = append(errs, errors.Errorf("catalog is empty"))
	}
	return self, helpers.FoldErrors(errs)
}

func (self *Catalog) Len() int { return len(self.ds) }

func (self *Catalog) Get(index int) (*Dispenser, error) {
	if index < 0 || index >= len(self.ds) {
		return nil, errors.NotFoundf("product index=%d", index)
	}
	return self.ds[index], nil
}

func (self *Catalog) MustGet(f helpers.Fataler, index int) *Dispenser {
	d, err := self.Get(index)
	if err != nil {
		f.Fatal(err)
		return nil
	}
	return d
}

func (self *Catalog) Names() []string {
	names := make([]string, len(self.ds))
	for i, d := range self.ds {
		names[i] = d.Name
	}
	return names
}

func (self *Catalog) Iter(fun func(index int, d *Dispenser)) {
	for i, d := range self.ds {
		fun(i, d)
	}
}

func (self *Catalog) String() string {
	parts := make([]string, 0, len(self.ds))
	for _, d := range self.ds {
		parts = append(parts, d.String())
	}
	return "catalog[" + strings.Join(parts, ",") + "]"
}
