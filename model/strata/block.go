package strata

// Timestamp is a block or event time in milliseconds since the unix epoch.
type Timestamp uint64

// EpochIndex numbers the fixed-length storage-pricing windows since genesis.
type EpochIndex uint16

// BlockInfo carries the block context every deterministic computation prices
// and timestamps against. Client-supplied times are never trusted; anything
// written to state uses these values.
type BlockInfo struct {
	Height     uint64
	CoreHeight uint32
	Time       Timestamp
	Epoch      EpochIndex
}

// GenesisBlockInfo returns the block info of the first block.
func GenesisBlockInfo(genesisTime Timestamp) BlockInfo {
	return BlockInfo{
		Height: 1,
		Time:   genesisTime,
		Epoch:  0,
	}
}
