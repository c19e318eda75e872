package gov

import (
	"github.com/ion-dao/ion-go/ctrlers/gov/proposal"
	"github.com/ion-dao/ion-go/ledger"
	"github.com/ion-dao/ion-go/types"
	"github.com/ion-dao/ion-go/types/xerrors"
)

// Secondary index partitions share one ledger; the first key byte selects
// the partition so each index forms a contiguous range.
const (
	idxPrefixStatus    = byte('S') // 'S' | status(1) | proposal id(8)
	idxPrefixProposer  = byte('P') // 'P' | proposer(20) | proposal id(8)
	idxPrefixDepositor = byte('D') // 'D' | depositor(20) | proposal id(8)
)

// IndexEntry is a secondary index row. The composite key carries all the
// information; the stored value repeats the key so that range iteration
// can reconstruct the entry without access to the tree key.
type IndexEntry struct {
	keyBytes []byte
}

func newIndexEntryProvider() *IndexEntry { return &IndexEntry{} }

func NewStatusIndexEntry(status proposal.ProposalStatus, propID uint64) *IndexEntry {
	bz := make([]byte, 0, 10)
	bz = append(bz, idxPrefixStatus, byte(status))
	bz = append(bz, ledger.U64ToBytes(propID)...)
	return &IndexEntry{keyBytes: bz}
}

func NewProposerIndexEntry(proposer types.Address, propID uint64) *IndexEntry {
	bz := make([]byte, 0, 29)
	bz = append(bz, idxPrefixProposer)
	bz = append(bz, proposer...)
	bz = append(bz, ledger.U64ToBytes(propID)...)
	return &IndexEntry{keyBytes: bz}
}

func NewDepositorIndexEntry(depositor types.Address, propID uint64) *IndexEntry {
	bz := make([]byte, 0, 29)
	bz = append(bz, idxPrefixDepositor)
	bz = append(bz, depositor...)
	bz = append(bz, ledger.U64ToBytes(propID)...)
	return &IndexEntry{keyBytes: bz}
}

// ProposalID is the trailing 8 bytes of every partition's key.
func (e *IndexEntry) ProposalID() uint64 {
	if len(e.keyBytes) < 8 {
		return 0
	}
	return ledger.BytesToU64(e.keyBytes[len(e.keyBytes)-8:])
}

func (e *IndexEntry) Key() ledger.LedgerKey {
	return ledger.ToLedgerKey(e.keyBytes)
}

func (e *IndexEntry) Encode() ([]byte, xerrors.XError) {
	return e.keyBytes, nil
}

func (e *IndexEntry) Decode(bz []byte) xerrors.XError {
	e.keyBytes = append([]byte(nil), bz...)
	return nil
}

var _ ledger.ILedgerItem = (*IndexEntry)(nil)

func statusIndexPrefix(status proposal.ProposalStatus) []byte {
	return []byte{idxPrefixStatus, byte(status)}
}

func proposerIndexPrefix(proposer types.Address) []byte {
	return append([]byte{idxPrefixProposer}, proposer...)
}

func depositorIndexPrefix(depositor types.Address) []byte {
	return append([]byte{idxPrefixDepositor}, depositor...)
}
