package recognize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"alice.anderson@example.com", "alice.anderson@example.com", true},
		{"Email: Bob.Baker+camp@Example.co.uk", "Bob.Baker+camp@Example.co.uk", true},
		{"<carol@example.org>", "carol@example.org", true},
		{"not an email", "", false},
		{"user@localhost", "", false},
		{"user@example.c", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := Email(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		line string
		ok   bool
	}{
		{"905-555-0101", true},
		{"(905) 555-0101", true},
		{"1 905 555 0101", true},
		{"9055550101", true},
		{"555-0101", false},
		{"123456789012", false},
		{"$905-555-0101", false},
		{"Order 9055550101", false},
		{"15.99", false},
		{"5", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, ok := Phone(tt.line, "Order")
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "9055550101", Digits("(905) 555-0101"))
	assert.Equal(t, "", Digits("none"))
}

func TestOrderID(t *testing.T) {
	id, ok := OrderID("Order ID: 90001", "Order ID:")
	require.True(t, ok)
	assert.Equal(t, "90001", id)

	_, ok = OrderID("Order ID: abc", "Order ID:")
	assert.False(t, ok)
	_, ok = OrderID("Order ID:", "Order ID:")
	assert.False(t, ok)
	_, ok = OrderID("Alice", "Order ID:")
	assert.False(t, ok)
}

func TestStatus(t *testing.T) {
	paid, ok := Status("PAID", []string{"PAID"}, []string{"UNPAID"})
	assert.True(t, ok)
	assert.True(t, paid)

	paid, ok = Status(" unpaid ", []string{"PAID"}, []string{"UNPAID"})
	assert.True(t, ok)
	assert.False(t, paid)

	paid, ok = Status("yes", []string{"YES"}, []string{"NO"})
	assert.True(t, ok)
	assert.True(t, paid)

	_, ok = Status("PAID IN FULL", []string{"PAID"}, []string{"UNPAID"})
	assert.False(t, ok)
}

func TestStandaloneQuantity(t *testing.T) {
	n, ok := StandaloneQuantity(" 3 ")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = StandaloneQuantity("3.00")
	assert.False(t, ok)
	_, ok = StandaloneQuantity("-1")
	assert.False(t, ok)
	_, ok = StandaloneQuantity("99999999999999999999")
	assert.False(t, ok)
	_, ok = StandaloneQuantity("100001")
	assert.False(t, ok)
	n, ok = StandaloneQuantity("100000")
	assert.True(t, ok)
	assert.Equal(t, MaxQuantity, n)
}

func TestQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3", 3, true},
		{"0", 0, true},
		{"100000", 100000, true},
		{"100001", 0, false},
		{"99999999999999999999", 0, false},
		{"2.5", 0, false},
		{"-1", 0, false},
	}
	for _, tt := range tests {
		got, ok := Quantity(decimal.RequireFromString(tt.in))
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestProduct(t *testing.T) {
	name, sku, ok := Product("Chicken Breast 5kg (1001001)")
	require.True(t, ok)
	assert.Equal(t, "Chicken Breast 5kg", name)
	assert.Equal(t, "1001001", sku)

	name, sku, ok = Product("Italian Cheese Bread Kit (ICB)")
	require.True(t, ok)
	assert.Equal(t, "Italian Cheese Bread Kit", name)
	assert.Equal(t, "ICB", sku)

	_, _, ok = Product("Chicken Breast 5kg")
	assert.False(t, ok)
	_, _, ok = Product("(1001001)")
	assert.False(t, ok)
}

func TestMoney(t *testing.T) {
	d, ok := Money("15.99")
	require.True(t, ok)
	assert.Equal(t, "15.99", d.StringFixed(2))

	d, ok = Money("$1,234.56")
	require.True(t, ok)
	assert.Equal(t, "1234.56", d.StringFixed(2))

	_, ok = Money("Price:")
	assert.False(t, ok)
	_, ok = Money("12,34")
	assert.False(t, ok)
}

func TestNumericFields(t *testing.T) {
	got := NumericFields("Price: $10.99 3 $32.97 $32.97")
	require.Len(t, got, 4)
	assert.Equal(t, "10.99", got[0].StringFixed(2))
	assert.True(t, got[1].IsInteger())
	assert.Equal(t, int64(3), got[1].IntPart())
	assert.Equal(t, "32.97", got[2].StringFixed(2))
}

func TestLabeledCount(t *testing.T) {
	n, status, ok := LabeledCount("# OF BOXES: 5  PAID", "# OF BOXES:")
	require.True(t, ok)
	assert.Equal(t, 5, n)
	assert.Equal(t, "PAID", status)

	n, status, ok = LabeledCount("# OF BOXES: 2", "# OF BOXES:")
	require.True(t, ok)
	assert.Equal(t, 2, n)
	assert.Empty(t, status)

	_, _, ok = LabeledCount("# OF BOXES: many", "# OF BOXES:")
	assert.False(t, ok)
}

func TestNameCandidate(t *testing.T) {
	for _, s := range []string{"Alice Anderson", "A. Anderson", "CAROL CARTER", "Mary-Jane O'Neil", "José Núñez"} {
		assert.True(t, NameCandidate(s), s)
	}
	for _, s := range []string{"", "Order ID: 90001", "Chicken Breast 5kg (1001001)", "15.99", "905-555-0101", "a@b.com", "J"} {
		assert.False(t, NameCandidate(s), s)
	}
}

func TestHeaderMatcher(t *testing.T) {
	h := NewHeaderMatcher("Order #", "Seller Name:")

	got, ok := h.Match("Alex Novak (Order #50001, Seller Name: Scout Alpha)")
	require.True(t, ok)
	assert.Equal(t, CompositeHeader{Buyer: "Alex Novak", OrderID: "50001", Seller: "Scout Alpha"}, got)

	_, ok = h.Match("Alex Novak (Order 50001, Seller: Scout Alpha)")
	assert.False(t, ok)
	_, ok = h.Match("Group Delivery")
	assert.False(t, ok)

	var nilMatcher *HeaderMatcher
	_, ok = nilMatcher.Match("x")
	assert.False(t, ok)
}
