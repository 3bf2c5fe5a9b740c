package inventory_config

import (
	"fmt"

	"github.com/temoto/juicebox/currency"
)

type Product struct { //nolint:maligned
	Name      string `hcl:"name,key"`
	XXX_Stock int    `hcl:"stock"` // use `Stock`, this is for decoding config only
	XXX_Price int    `hcl:"price"` // use scaled `Price`, this is for decoding config only

	Stock uint32          `hcl:"-"`
	Price currency.Amount `hcl:"-"`
}

func (self *Product) String() string {
	return fmt.Sprintf("product=%s stock=%d price=%d(raw)", self.Name, self.XXX_Stock, self.XXX_Price)
}

// Default catalog, used when config has no products.
func Default() []Product {
	return []Product{
		{Name: "Apple Juice", XXX_Stock: 10, XXX_Price: 100},
		{Name: "Orange Juice", XXX_Stock: 10, XXX_Price: 120},
		{Name: "Mango Lassi", XXX_Stock: 0, XXX_Price: 150},
		{Name: "Fruit Punch", XXX_Stock: 10, XXX_Price: 180},
	}
}
