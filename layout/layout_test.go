package layout

import (
	"path/filepath"
	"testing"

	"github.com/arloliu/amistore/errs"
	"github.com/stretchr/testify/require"
)

func TestShardOf(t *testing.T) {
	tests := []struct {
		symbol string
		shard  string
	}{
		{"SPCE", "s"},
		{"spce", "s"},
		{"AAPL", "a"},
		{"^GSPC", "_"},
		{"~TEST", "_"},
		{"@ES", "_"},
		{"1INCH", "1"},
		{"C_O_N.DE", "c"},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			shard, err := ShardOf(tt.symbol)
			require.NoError(t, err)
			require.Equal(t, tt.shard, shard)
		})
	}

	_, err := ShardOf("")
	require.ErrorIs(t, err, errs.ErrInvalidSymbol)
}

func TestPathOf(t *testing.T) {
	root := filepath.Join("data", "db")

	p, err := PathOf(root, "SPCE")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "s", "SPCE"), p)

	p, err = PathOf(root, "^GSPC")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "_", "^GSPC"), p)

	p, err = PathOf(root, "broker.master")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "broker.master"), p)
	require.Equal(t, MasterPath(root), p)

	p, err = PathOf(root, "Broker.Master")
	require.NoError(t, err)
	require.Equal(t, MasterPath(root), p)

	for _, bad := range []string{"", "..", ".", ".X", "..AA", "A/B", `A\B`, "A\x00"} {
		_, err := PathOf(root, bad)
		require.ErrorIsf(t, err, errs.ErrInvalidSymbol, "symbol %q", bad)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"CON.DE", "C_O_N.DE"},
		{"con.de", "c_o_n.de"},
		{"AUX", "A_U_X"},
		{"LSTR", "L_S_TR"},
		{"PRN.L", "P_R_N.L"},
		{"NUL", "N_U_L"},
		{"EOF.X", "E_O_F.X"},
		{"INP", "I_N_P"},
		{"OUTL", "O_U_TL"},
		{"SPCE", "SPCE"},
		{"CO", "CO"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.out, Sanitize(tt.in))
			require.Equal(t, tt.in != tt.out, IsReserved(tt.in))
		})
	}
}

func TestSanitizeIsStable(t *testing.T) {
	once := Sanitize("CON.DE")
	require.False(t, IsReserved(once))
	require.Equal(t, once, Sanitize(once))
}
