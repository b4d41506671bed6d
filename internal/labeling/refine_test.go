package labeling

import (
	"testing"

	"tickLabeler/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefineFirstHit_AmbiguousBarResolvedByTickOrder(t *testing.T) {
	// The bar straddled TP=102 and SL=98 at once; the ticks show the ask
	// crossing TP before the bid crosses SL, so refinement must override
	// the scanner's conservative SL default with a TP hit.
	b := ComputeBarriers(100, 2, 1, 1)
	ticks := domain.TickSlice{
		{TsNs: 1_000, Bid: 101.8, Ask: 101.9},
		{TsNs: 2_000, Bid: 102.0, Ask: 102.1},
		{TsNs: 3_000, Bid: 97.9, Ask: 98.0},
	}

	r, ok := RefineFirstHit(ticks, domain.SideLong, b, 0, 10_000)

	require.True(t, ok)
	assert.Equal(t, domain.HitTakeProfit, r.Hit)
	assert.Equal(t, int64(2_000), r.ExitTimeNs, "the ask-crossing tick occurs before the bid-crossing tick")
	assert.Equal(t, 102.0, r.ExitPrice)
}

func TestRefineFirstHit_FillSides(t *testing.T) {
	b := ComputeBarriers(100, 2, 1, 1)

	tests := []struct {
		name    string
		side    domain.Side
		ticks   domain.TickSlice
		wantHit domain.HitType
		wantTs  int64
	}{
		{
			name: "long TP requires the ask to trade through the level",
			side: domain.SideLong,
			ticks: domain.TickSlice{
				{TsNs: 1, Bid: 102.0, Ask: 101.9}, // crossed bid alone does not fill a long TP
				{TsNs: 2, Bid: 102.0, Ask: 102.2},
			},
			wantHit: domain.HitTakeProfit,
			wantTs:  2,
		},
		{
			name: "long SL requires the bid to trade through the level",
			side: domain.SideLong,
			ticks: domain.TickSlice{
				{TsNs: 1, Bid: 98.1, Ask: 97.9}, // crossed ask alone does not stop a long
				{TsNs: 2, Bid: 97.8, Ask: 98.0},
			},
			wantHit: domain.HitStopLoss,
			wantTs:  2,
		},
		{
			name: "short TP checks the bid",
			side: domain.SideShort,
			ticks: domain.TickSlice{
				{TsNs: 1, Bid: 98.2, Ask: 98.3},
				{TsNs: 2, Bid: 97.9, Ask: 98.1},
			},
			wantHit: domain.HitTakeProfit,
			wantTs:  2,
		},
		{
			name: "short SL checks the ask",
			side: domain.SideShort,
			ticks: domain.TickSlice{
				{TsNs: 1, Bid: 101.8, Ask: 101.9},
				{TsNs: 2, Bid: 101.9, Ask: 102.0},
			},
			wantHit: domain.HitStopLoss,
			wantTs:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := RefineFirstHit(tt.ticks, tt.side, b, 0, 10)
			require.True(t, ok)
			assert.Equal(t, tt.wantHit, r.Hit)
			assert.Equal(t, tt.wantTs, r.ExitTimeNs)
		})
	}
}

func TestRefineFirstHit_NoCrossingKeepsProvisional(t *testing.T) {
	b := ComputeBarriers(100, 2, 1, 1)
	ticks := domain.TickSlice{
		{TsNs: 1, Bid: 99.9, Ask: 100.1},
		{TsNs: 2, Bid: 100.4, Ask: 100.6},
	}

	_, ok := RefineFirstHit(ticks, domain.SideLong, b, 0, 10)
	assert.False(t, ok, "no satisfying tick: the bar-level outcome stands")
}

func TestRefineFirstHit_WindowBounds(t *testing.T) {
	// Crossings outside [entry, provisional exit] are invisible: refinement
	// can never move the exit before the entry time or past the bar-level
	// exit time.
	b := ComputeBarriers(100, 2, 1, 1)
	ticks := domain.TickSlice{
		{TsNs: 500, Bid: 102.5, Ask: 102.6},   // before entry
		{TsNs: 1_500, Bid: 99.0, Ask: 99.2},   // in window, no crossing
		{TsNs: 2_500, Bid: 102.4, Ask: 102.5}, // in window, TP
		{TsNs: 9_000, Bid: 97.0, Ask: 97.2},   // after provisional exit
	}

	r, ok := RefineFirstHit(ticks, domain.SideLong, b, 1_000, 3_000)

	require.True(t, ok)
	assert.Equal(t, domain.HitTakeProfit, r.Hit)
	assert.Equal(t, int64(2_500), r.ExitTimeNs)
	assert.GreaterOrEqual(t, r.ExitTimeNs, int64(1_000))
	assert.LessOrEqual(t, r.ExitTimeNs, int64(3_000))
}

func TestRefineFirstHit_BothSide(t *testing.T) {
	b := ComputeBarriers(100, 2, 1, 1)

	t.Run("first direction crossed wins", func(t *testing.T) {
		ticks := domain.TickSlice{
			{TsNs: 1, Bid: 99.5, Ask: 99.7},
			{TsNs: 2, Bid: 97.9, Ask: 98.1}, // bid through 98: short TP
			{TsNs: 3, Bid: 102.0, Ask: 102.2},
		}
		r, ok := RefineFirstHit(ticks, domain.SideBoth, b, 0, 10)
		require.True(t, ok)
		assert.Equal(t, domain.HitTakeProfit, r.Hit)
		assert.Equal(t, domain.SideShort, r.Side)
		assert.Equal(t, 98.0, r.ExitPrice)
	})

	t.Run("nearer level within one direction wins", func(t *testing.T) {
		wide := ComputeBarriers(100, 2, 3, 1) // LongTP 106, ShortSL 102
		ticks := domain.TickSlice{
			{TsNs: 1, Bid: 106.0, Ask: 106.2}, // through both up-levels at once
		}
		r, ok := RefineFirstHit(ticks, domain.SideBoth, wide, 0, 10)
		require.True(t, ok)
		assert.Equal(t, domain.HitStopLoss, r.Hit)
		assert.Equal(t, domain.SideShort, r.Side)
		assert.Equal(t, 102.0, r.ExitPrice)
	})

	t.Run("straddling spread keeps the conservative stop", func(t *testing.T) {
		ticks := domain.TickSlice{
			{TsNs: 1, Bid: 97.9, Ask: 102.1}, // degenerate spread across both directions
		}
		r, ok := RefineFirstHit(ticks, domain.SideBoth, b, 0, 10)
		require.True(t, ok)
		assert.Equal(t, domain.HitStopLoss, r.Hit)
		assert.Equal(t, domain.SideLong, r.Side)
	})
}
