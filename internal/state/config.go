package state

import (
	"math"
	"path/filepath"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/juicebox/currency"
	"github.com/temoto/juicebox/helpers"
	inventory_config "github.com/temoto/juicebox/internal/inventory/config"
	ui_config "github.com/temoto/juicebox/internal/ui/config"
	"github.com/temoto/juicebox/log2"
)

const DefaultOpeningBalance = 500

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Money struct {
		Scale int    `hcl:"scale"`
		Unit  string `hcl:"unit"`
		// use scaled `OpeningBalance`, this is for decoding config only
		XXX_OpeningBalance *int `hcl:"opening_balance"`

		OpeningBalance currency.Amount `hcl:"-"`
	} `hcl:"money"`

	Products []inventory_config.Product `hcl:"product"`

	UI ui_config.Config `hcl:"ui"`
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

func (c *Config) ScaleI(i int) (currency.Amount, error) {
	return currency.FromInt(i * c.Money.Scale)
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		*errs = append(*errs, errors.Errorf("config duplicate source=%s", source.Name))
		return
	}
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

// normalize applies defaults and money scale. Must be called once after all sources are read.
func (c *Config) normalize(log *log2.Log) error {
	errs := make([]error, 0)

	if c.Money.Scale == 0 {
		c.Money.Scale = 1
	} else if c.Money.Scale < 0 {
		errs = append(errs, errors.NotValidf("config: money.scale < 0"))
		c.Money.Scale = 1
	}
	if c.Money.Unit == "" {
		c.Money.Unit = currency.DefaultUnit
	}
	opening := DefaultOpeningBalance
	if c.Money.XXX_OpeningBalance != nil {
		opening = *c.Money.XXX_OpeningBalance
	}
	var err error
	if c.Money.OpeningBalance, err = c.ScaleI(opening); err != nil {
		errs = append(errs, errors.Annotate(err, "config: money.opening_balance"))
	}

	if len(c.Products) == 0 {
		log.Debugf("config: no products, using default catalog")
		c.Products = inventory_config.Default()
	}
	for i := range c.Products {
		p := &c.Products[i]
		if p.XXX_Stock < 0 || uint64(p.XXX_Stock) > math.MaxUint32 {
			errs = append(errs, errors.NotValidf("config: product=%s stock=%d", p.Name, p.XXX_Stock))
			continue
		}
		p.Stock = uint32(p.XXX_Stock)
		if p.XXX_Price <= 0 {
			errs = append(errs, errors.NotValidf("config: product=%s price=%d", p.Name, p.XXX_Price))
			continue
		}
		if p.Price, err = c.ScaleI(p.XXX_Price); err != nil {
			errs = append(errs, errors.Annotatef(err, "config: product=%s price", p.Name))
		}
	}

	pay := &c.UI.Payment
	pay.MaxAttempts = ui_config.DefaultMaxAttempts
	if pay.XXX_MaxAttempts != nil {
		pay.MaxAttempts = *pay.XXX_MaxAttempts
	}
	if pay.MaxAttempts < 0 {
		errs = append(errs, errors.NotValidf("config: ui.payment.max_attempts=%d", pay.MaxAttempts))
		pay.MaxAttempts = ui_config.DefaultMaxAttempts
	}
	pay.PromptRemaining = ui_config.DefaultPromptRemaining
	if pay.XXX_PromptRemaining != nil {
		pay.PromptRemaining = *pay.XXX_PromptRemaining
	}
	c.UI.ConfirmExit = ui_config.DefaultConfirmExit
	if c.UI.XXX_ConfirmExit != nil {
		c.UI.ConfirmExit = *c.UI.XXX_ConfirmExit
	}

	return helpers.FoldErrors(errs)
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		return nil, errors.Errorf("code error ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		if err := osfs.SetBase(dir); err != nil {
			return nil, err
		}
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	if len(errs) == 0 {
		errs = append(errs, c.normalize(log))
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
