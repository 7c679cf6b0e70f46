package room

// Config holds the per-room game settings. Values outside their valid
// range are clamped, never rejected.
type Config struct {
	TilesPerSymbol int `json:"tiles_per_symbol"`
	BlockerCount   int `json:"blocker_count"`
	PointsToWin    int `json:"points_to_win"`
}

func DefaultConfig() Config {
	return Config{TilesPerSymbol: 8, BlockerCount: 6, PointsToWin: 10}
}

func (c Config) clamped() Config {
	c.TilesPerSymbol = clamp(c.TilesPerSymbol, 1, 20)
	c.BlockerCount = clamp(c.BlockerCount, 0, 20)
	c.PointsToWin = clamp(c.PointsToWin, 1, 99)
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
