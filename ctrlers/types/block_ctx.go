package types

// BlockContext carries the caller-supplied ledger clock into a state
// transition. Every operation is applied to completion against a single
// BlockContext; there is no wall-clock dependence.
type BlockContext struct {
	BlockTime
}

func NewBlockContext(height, btime int64) *BlockContext {
	return &BlockContext{
		BlockTime: BlockTime{
			Height: height,
			Time:   btime,
		},
	}
}
