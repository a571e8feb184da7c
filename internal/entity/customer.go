package entity

// Customer is a consolidated identity. Names, Emails and Phones are ordered
// distinct sets; Emails and Phones hold normalized values.
type Customer struct {
	CanonicalName string        `json:"canonical_name"`
	Names         []string      `json:"all_names_seen"`
	Emails        []string      `json:"all_emails_seen"`
	Phones        []string      `json:"all_phones_seen"`
	Orders        []OrderRecord `json:"orders"`
	TotalUnits    int           `json:"total_units"`
}

// OrderIDs lists the customer's order ids in insertion order.
func (c *Customer) OrderIDs() []string {
	ids := make([]string, len(c.Orders))
	for i, o := range c.Orders {
		ids[i] = o.OrderID
	}
	return ids
}

// PaidUnits sums units over paid orders.
func (c *Customer) PaidUnits() int {
	n := 0
	for _, o := range c.Orders {
		if o.Paid {
			n += o.UnitCount
		}
	}
	return n
}
