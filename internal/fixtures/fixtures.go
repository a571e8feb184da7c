// Package fixtures builds synthetic extractor output in both supported
// formats. All names, emails and phones are made up.
package fixtures

import (
	"fmt"
	"strings"
)

// Expected totals for the documents built by this package.
const (
	JDSweidOrders    = 28
	JDSweidCustomers = 25
	JDSweidUnits     = 99

	LittleCaesarsOrders  = 35
	LittleCaesarsSellers = 12
	LittleCaesarsUnits   = 97
	LittleCaesarsNoPhone = 3
	LittleCaesarsUnpaid  = 12
)

type product struct {
	name  string
	sku   string
	price float64
}

var jdsProducts = []product{
	{"Chicken Breast 5kg", "1001001", 15.99},
	{"Turkey Burgers 4pk", "1001002", 12.49},
	{"Beef Patties 2kg", "1001003", 18.99},
	{"Salmon Fillets 1kg", "1001004", 24.99},
	{"Veggie Nuggets 500g", "1001005", 9.99},
}

// JDSItem is a product index into the JD Sweid catalogue and a quantity.
type JDSItem struct {
	Product int
	Qty     int
}

// JDSOrder is one supporter block.
type JDSOrder struct {
	Name    string
	Email   string
	Phone   string
	OrderID int
	Items   []JDSItem
	Paid    bool
}

// Boxes is the declared box count for the block.
func (o JDSOrder) Boxes() int {
	n := 0
	for _, it := range o.Items {
		n += it.Qty
	}
	return n
}

// JDSweidOrderList returns 28 orders that consolidate to 25 customers and 99 boxes:
// an email pair, a phone pair, a same-email case variant pair and 22 singles.
func JDSweidOrderList() []JDSOrder {
	orders := []JDSOrder{
		{"Alice Anderson", "alice.anderson@example.com", "905-555-0101", 0, []JDSItem{{0, 3}, {1, 2}}, true},
		{"A. Anderson", "alice.anderson@example.com", "", 0, []JDSItem{{2, 1}}, false},
		{"Bob Baker", "bob.baker@example.com", "905-555-0102", 0, []JDSItem{{3, 2}}, true},
		{"Robert Baker", "", "905-555-0102", 0, []JDSItem{{4, 3}}, true},
		{"Carol Carter", "carol.carter@example.com", "", 0, []JDSItem{{0, 2}}, false},
		{"CAROL CARTER", "carol.carter@example.com", "", 0, []JDSItem{{1, 1}}, true},
	}
	singles := []struct {
		name, email, phone string
		product, qty       int
		paid               bool
	}{
		{"David Davis", "david.davis@example.com", "905-555-0201", 0, 4, true},
		{"Eve Edwards", "eve.edwards@example.com", "905-555-0202", 1, 3, false},
		{"Frank Foster", "frank.foster@example.com", "905-555-0203", 2, 5, true},
		{"Grace Green", "grace.green@example.com", "905-555-0204", 3, 4, true},
		{"Hank Harris", "hank.harris@example.com", "905-555-0205", 4, 3, false},
		{"Iris Ingram", "iris.ingram@example.com", "905-555-0206", 0, 5, true},
		{"Jack Jensen", "jack.jensen@example.com", "905-555-0207", 1, 4, true},
		{"Karen King", "karen.king@example.com", "905-555-0208", 2, 3, false},
		{"Leo Lambert", "leo.lambert@example.com", "905-555-0209", 3, 5, true},
		{"Mia Mitchell", "mia.mitchell@example.com", "905-555-0210", 4, 4, true},
		{"Noah Nelson", "noah.nelson@example.com", "905-555-0211", 0, 3, false},
		{"Olivia Owen", "olivia.owen@example.com", "905-555-0212", 1, 5, true},
		{"Paul Parker", "paul.parker@example.com", "905-555-0213", 2, 4, true},
		{"Quinn Quinn", "quinn.quinn@example.com", "905-555-0214", 3, 3, false},
		{"Rita Ross", "rita.ross@example.com", "905-555-0215", 4, 4, true},
		{"Sam Stewart", "sam.stewart@example.com", "905-555-0216", 0, 5, true},
		{"Tara Turner", "tara.turner@example.com", "905-555-0217", 1, 4, false},
		{"Uma Underwood", "", "905-555-0218", 2, 4, true},
		{"Victor Vance", "", "905-555-0219", 3, 4, true},
		{"Wendy Walters", "", "905-555-0220", 4, 3, false},
		{"Xavier Xu", "xavier.xu@example.com", "", 0, 3, true},
		{"Yolanda Young", "yolanda.young@example.com", "", 1, 3, true},
	}
	for _, s := range singles {
		orders = append(orders, JDSOrder{
			Name: s.name, Email: s.email, Phone: s.phone,
			Items: []JDSItem{{s.product, s.qty}}, Paid: s.paid,
		})
	}
	for i := range orders {
		orders[i].OrderID = 90001 + i
	}
	return orders
}

// JDSweidBlock renders one supporter block, header included.
func JDSweidBlock(o JDSOrder) []string {
	out := []string{"SUPPORTER  PRODUCTS ORDERED", o.Name}
	if o.Email != "" {
		out = append(out, o.Email)
	}
	if o.Phone != "" {
		out = append(out, o.Phone)
	}
	out = append(out, fmt.Sprintf("Order ID: %d", o.OrderID), "QTY   UNIT PRICE   SUBTOTAL")
	for _, it := range o.Items {
		p := jdsProducts[it.Product]
		out = append(out,
			fmt.Sprintf("%s (%s)", p.name, p.sku),
			fmt.Sprintf("%d", it.Qty),
			fmt.Sprintf("%.2f", p.price),
			fmt.Sprintf("%.2f", p.price*float64(it.Qty)),
		)
	}
	status := "UNPAID"
	if o.Paid {
		status = "PAID"
	}
	out = append(out, fmt.Sprintf("# OF BOXES: %d  %s", o.Boxes(), status), "")
	return out
}

// JDSweidPreamble is the document header printed before the first block.
func JDSweidPreamble() []string {
	return []string{
		"SUPPORTER ORDERS SUMMARY",
		"Delivery Date: 2026-03-15",
		"Location: Community Centre, 123 Maple St",
		"Time: 4:00 PM - 6:00 PM",
		"",
	}
}

// JDSweidSummary is the trailing campaign summary.
func JDSweidSummary(orders int) []string {
	return []string{
		"",
		"PRODUCTS ORDERED SUMMARY",
		fmt.Sprintf("TOTAL # OF ORDERS: %d", orders),
		"CAMPAIGN TOTAL: $1,234.56",
	}
}

// JDSweidLines renders a complete document. Every seventh block starts a new
// page, the way the extractor emits a form feed.
func JDSweidLines(orders []JDSOrder) []string {
	out := JDSweidPreamble()
	for i, o := range orders {
		block := JDSweidBlock(o)
		if i > 0 && i%7 == 0 {
			block[0] = "\f" + block[0]
		}
		out = append(out, block...)
	}
	return append(out, JDSweidSummary(len(orders))...)
}

// JDSweidText is the full default document as extractor text.
func JDSweidText() string {
	return strings.Join(JDSweidLines(JDSweidOrderList()), "\n") + "\n"
}

var lcProducts = []product{
	{"Pepperoni Pizza Kit", "PP", 10.99},
	{"Thin Crust Pizza Kit", "TC", 10.99},
	{"Crazy Bread Kit", "CB", 7.99},
	{"Cookie Dough Kit", "CD", 9.99},
	{"Italian Cheese Bread Kit", "ICB", 11.99},
}

var lcSellers = []struct {
	name   string
	orders int
}{
	{"Scout Alpha", 5}, {"Scout Bravo", 4}, {"Scout Charlie", 4},
	{"Scout Delta", 3}, {"Scout Echo", 3}, {"Scout Foxtrot", 3}, {"Scout Golf", 3},
	{"Scout Hotel", 2}, {"Scout India", 2}, {"Scout Juliet", 2}, {"Scout Kilo", 2}, {"Scout Lima", 2},
}

var lcBuyers = []string{
	"Alex Novak", "Beth Owens", "Carl Pratt", "Dana Quinn",
	"Evan Reed", "Faye Stone", "Gary Tran", "Holly Underhill",
	"Ivan Voss", "Julia Wells", "Kurt Xander", "Laura Yates",
	"Mike Zeller", "Nora Abbott", "Oscar Byrne", "Pam Crane",
	"Reid Drake", "Sara Elliot", "Troy Finch", "Una Grant",
	"Vince Hardy", "Wanda Irwin", "Xena James", "Yuri Kent",
	"Zara Long", "Adam Marsh", "Bree Nash", "Cole Park",
	"Dawn Reese", "Erik Shaw", "Fern Tate", "Glen Unger",
	"Hope Vega", "Ira Walsh", "Jade Yoder",
}

// quantities per order in seller order; they add up to 97
var lcQtys = []int{
	3, 2, 3, 3, 2,
	3, 3, 2, 3,
	2, 3, 3, 2,
	3, 3, 2,
	3, 2, 3,
	2, 3, 3,
	3, 2, 2,
	3, 3,
	3, 2,
	3, 3,
	2, 3,
	3, 7,
}

// LCOrder is one group delivery record.
type LCOrder struct {
	Seller  string
	Buyer   string
	OrderID int
	Phone   string
	Product int
	Qty     int
	Paid    bool
}

// LittleCaesarsOrderList returns 35 records from 12 sellers totalling 97 boxes.
// Buyers 7, 19 and 30 have no phone; every third buyer is unpaid.
func LittleCaesarsOrderList() []LCOrder {
	var out []LCOrder
	i := 0
	for _, s := range lcSellers {
		for n := 0; n < s.orders; n++ {
			o := LCOrder{
				Seller:  s.name,
				Buyer:   lcBuyers[i],
				OrderID: 50001 + i,
				Product: i % len(lcProducts),
				Qty:     lcQtys[i],
				Paid:    i%3 != 0,
			}
			if i != 7 && i != 19 && i != 30 {
				o.Phone = fmt.Sprintf("416-555-%04d", 1000+i)
			}
			out = append(out, o)
			i++
		}
	}
	return out
}

// LittleCaesarsRecord renders one record, marker included.
func LittleCaesarsRecord(o LCOrder) []string {
	out := []string{
		"Group Delivery",
		fmt.Sprintf("%s (Order #%d, Seller Name: %s)", o.Buyer, o.OrderID, o.Seller),
	}
	if o.Phone != "" {
		out = append(out, "Phone #: "+o.Phone)
	}
	p := lcProducts[o.Product]
	sub := p.price * float64(o.Qty)
	yn := "NO"
	if o.Paid {
		yn = "YES"
	}
	return append(out,
		"PRODUCT NAME   QTY   PRICE   SUBTOTAL",
		fmt.Sprintf("%s (%s)", p.name, p.sku),
		fmt.Sprintf("Price: $%.2f  %d  $%.2f  $%.2f", p.price, o.Qty, sub, sub),
		yn,
		"",
	)
}

// LittleCaesarsLines renders one record per page, each page ending in a form feed.
func LittleCaesarsLines(orders []LCOrder) []string {
	var out []string
	for i, o := range orders {
		rec := LittleCaesarsRecord(o)
		if i > 0 {
			rec[0] = "\f" + rec[0]
		}
		out = append(out, rec...)
	}
	return append(out, "\f")
}

// LittleCaesarsText is the full default document as extractor text.
func LittleCaesarsText() string {
	return strings.Join(LittleCaesarsLines(LittleCaesarsOrderList()), "\n") + "\n"
}
