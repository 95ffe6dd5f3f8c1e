package alphavantage_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"alphavantage/internal/alphavantage"
	"alphavantage/internal/errs"
)

func TestQuery_WithCopies(t *testing.T) {
	t.Parallel()

	base := alphavantage.NewQuery("SMA").With("symbol", "IBM")
	next := base.With("interval", "daily").With("symbol", "MSFT")

	require.Equal(t, "function=SMA&symbol=IBM", base.String())
	require.Equal(t, "function=SMA&symbol=MSFT&interval=daily", next.String())
	require.Equal(t, "SMA", next.Function())
	require.Equal(t, 3, next.Len())
}

func TestQuery_IgnoresKey(t *testing.T) {
	t.Parallel()

	q := alphavantage.NewQuery("GLOBAL_QUOTE").With("apikey", "x").With("APIKEY", "y")
	require.Equal(t, 1, q.Len())
	require.NotContains(t, q.Values(), "apikey")
}

func TestNormalizeSymbol(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"ibm", "IBM", true},
		{" brk.b ", "BRK.B", true},
		{"RDS-A", "RDS-A", true},
		{"ABCDEFGHIJ", "ABCDEFGHIJ", true},
		{"ABCDEFGHIJK", "", false},
		{"", "", false},
		{"IB M", "", false},
		{"IBM$", "", false},
	}
	for _, tt := range tests {
		got, err := alphavantage.NormalizeSymbol(tt.in)
		if !tt.ok {
			require.ErrorIsf(t, err, errs.ErrInvalidSymbol, "input %q", tt.in)
			continue
		}
		require.NoErrorf(t, err, "input %q", tt.in)
		require.Equal(t, tt.want, got)
	}
}

func TestNormalizeCurrency(t *testing.T) {
	t.Parallel()

	got, err := alphavantage.NormalizeCurrency("eur")
	require.NoError(t, err)
	require.Equal(t, "EUR", got)

	for _, bad := range []string{"", "E", "TOOLONG", "U$D"} {
		_, err := alphavantage.NormalizeCurrency(bad)
		require.ErrorIsf(t, err, errs.ErrInvalidSymbol, "input %q", bad)
	}
}

func TestValidateInterval(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"1min", "5min", "15min", "30min", "60min", "daily", "weekly", "monthly"} {
		require.NoError(t, alphavantage.ValidateInterval(ok))
	}
	for _, bad := range []string{"", "2min", "Daily", "yearly"} {
		require.Error(t, alphavantage.ValidateInterval(bad))
	}
}
