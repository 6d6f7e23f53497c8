// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>
package log

import (
	"bytes"
	"log/slog"
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

var sink []byte

func BenchmarkPrettyInt64Logfmt(b *testing.B) {
	buf := make([]byte, 100)
	b.ReportAllocs()
	for b.Loop() {
		sink = appendInt64(buf, rand.Int64()) //#nosec G404
	}
}

func BenchmarkPrettyUint64Logfmt(b *testing.B) {
	buf := make([]byte, 100)
	b.ReportAllocs()
	for b.Loop() {
		sink = appendUint64(buf, rand.Uint64(), false) //#nosec G404
	}
}

func TestAppendNumbers(t *testing.T) {
	assert.Equal(t, "99999", string(appendUint64(nil, 99999, false)))
	assert.Equal(t, "1,000,000", string(appendUint64(nil, 1_000_000, false)))
	assert.Equal(t, "-1,234,567", string(appendInt64(nil, -1_234_567)))

	huge, _ := new(big.Int).SetString("1000000000000000000000", 10)
	assert.Equal(t, "1000000000000000000000", string(appendBigInt(nil, huge)))
	assert.Equal(t, "123,456", string(appendU256(nil, uint256.NewInt(123456))))
}

func TestTerminalHandler(t *testing.T) {
	var out bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(LevelInfo)

	l := NewLogger(NewTerminalHandlerWithLevel(&out, &lvl, false)).With("pkg", "ledger")
	l.Debug("hidden")
	assert.Empty(t, out.String())

	l.Info("deposited", "amount", big.NewInt(1_500_000), "user", "alice smith")
	line := out.String()
	assert.Contains(t, line, "INFO ")
	assert.Contains(t, line, "deposited")
	assert.Contains(t, line, "pkg=ledger")
	assert.Contains(t, line, "amount=1,500,000")
	assert.Contains(t, line, `user="alice smith"`)

	lvl.Set(LevelDebug)
	out.Reset()
	l.Debug("shown")
	assert.Contains(t, out.String(), "DEBUG")
}

func TestWithContextFollowsRoot(t *testing.T) {
	var out bytes.Buffer
	pkgLogger := WithContext("pkg", "skills")

	prev := Root()
	defer SetDefault(prev)

	var lvl slog.LevelVar
	lvl.Set(LevelInfo)
	SetDefault(NewLogger(JSONHandlerWithLevel(&out, &lvl)))
	pkgLogger.Warn("slot limit", "active", 3, "amount", big.NewInt(7))
	pkgLogger.Debug("hidden")

	assert.Contains(t, out.String(), `"lvl":"warn"`)
	assert.Contains(t, out.String(), `"pkg":"skills"`)
	assert.Contains(t, out.String(), `"active":3`)
	assert.Contains(t, out.String(), `"amount":"7"`)
	assert.NotContains(t, out.String(), "hidden")
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(5))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
	assert.Equal(t, LevelCrit, FromLegacyLevel(-1))
}
