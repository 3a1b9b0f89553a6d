package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddIsIdempotent(t *testing.T) {
	l := New(nil)

	assert.True(t, l.Add("example.com"))
	assert.False(t, l.Add("example.com"))
	assert.False(t, l.Add(" Example.COM. "))
	assert.Equal(t, []string{"example.com"}, l.Domains())
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	l := New([]string{"a.example", "b.example"})

	assert.False(t, l.Remove("c.example"))
	assert.True(t, l.Remove("A.example"))
	assert.False(t, l.Remove("a.example"))
	assert.Equal(t, []string{"b.example"}, l.Domains())
}

func TestNewDropsDuplicatesAndEmpty(t *testing.T) {
	l := New([]string{"a.example", "", "A.EXAMPLE", "b.example", "  "})
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, []string{"a.example", "b.example"}, l.Domains())
}

func TestMatchesSubdomains(t *testing.T) {
	l := New([]string{"bank.example"})

	assert.True(t, l.Matches("bank.example"))
	assert.True(t, l.Matches("login.bank.example"))
	assert.True(t, l.Matches("LOGIN.Bank.Example."))
	assert.False(t, l.Matches("evilbank.example"))
	assert.False(t, l.Matches("bank.example.evil"))
	assert.False(t, l.Matches(""))
}

func TestNormalizeInternationalNames(t *testing.T) {
	assert.Equal(t, "xn--bcher-kva.example", Normalize("Bücher.example"))
	assert.Equal(t, "", Normalize("   "))

	l := New([]string{"bücher.example"})
	assert.True(t, l.Matches("shop.xn--bcher-kva.example"))
}

func TestDomainsReturnsCopy(t *testing.T) {
	l := New([]string{"a.example"})
	d := l.Domains()
	d[0] = "mutated"
	assert.Equal(t, []string{"a.example"}, l.Domains())
}
