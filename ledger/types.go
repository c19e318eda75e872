package ledger

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/ion-dao/ion-go/types/xerrors"
)

const LEDGERKEYSIZE = 32

type LedgerKey = [32]byte

func ToLedgerKey(s []byte) LedgerKey {
	var ret LedgerKey
	n := len(s)
	if n > LEDGERKEYSIZE {
		n = LEDGERKEYSIZE
	}
	copy(ret[:], s[:n])
	return ret
}

// ToLedgerKeyOf packs composite key parts left to right and zero-pads the
// rest. Parts must have fixed widths so that lexicographic key order equals
// (part0, part1, ...) order.
func ToLedgerKeyOf(parts ...[]byte) LedgerKey {
	var ret LedgerKey
	off := 0
	for _, p := range parts {
		n := len(p)
		if off+n > LEDGERKEYSIZE {
			n = LEDGERKEYSIZE - off
		}
		copy(ret[off:], p[:n])
		off += n
		if off >= LEDGERKEYSIZE {
			break
		}
	}
	return ret
}

func U64ToBytes(v uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, v)
	return bz
}

func BytesToU64(bz []byte) uint64 {
	return binary.BigEndian.Uint64(bz)
}

// PrefixRange returns the [start, end) bounds covering every key beginning
// with prefix. A nil end means unbounded above.
func PrefixRange(prefix []byte) ([]byte, []byte) {
	start := make([]byte, len(prefix))
	copy(start, prefix)
	end := IncBytes(prefix)
	return start, end
}

// IncBytes returns the smallest byte string greater than every string
// prefixed by bz, or nil if bz is all 0xFF.
func IncBytes(bz []byte) []byte {
	ret := make([]byte, len(bz))
	copy(ret, bz)
	for i := len(ret) - 1; i >= 0; i-- {
		if ret[i] < 0xFF {
			ret[i]++
			return ret[:i+1]
		}
	}
	return nil
}

type LedgerKeyList []LedgerKey

func (a LedgerKeyList) Len() int {
	return len(a)
}
func (a LedgerKeyList) Less(i, j int) bool {
	return bytes.Compare(a[i][:], a[j][:]) < 0
}
func (a LedgerKeyList) Swap(i, j int) {
	a[i], a[j] = a[j], a[i]
}

var _ sort.Interface = LedgerKeyList(nil)

type ILedgerItem interface {
	Key() LedgerKey
	Encode() ([]byte, xerrors.XError)
	Decode([]byte) xerrors.XError
}

// ErrStopIterate is returned from an iteration callback to end the scan
// without reporting an error.
var ErrStopIterate = xerrors.NewOrdinary("stop to iterate ledger tree")

type ILedger[T ILedgerItem] interface {
	Version() int64
	Set(T) xerrors.XError
	CancelSet(LedgerKey) xerrors.XError
	Get(LedgerKey) (T, xerrors.XError)
	Del(LedgerKey) (T, xerrors.XError)
	CancelDel(LedgerKey) xerrors.XError
	Read(LedgerKey) (T, xerrors.XError)
	IterateAllItems(func(T) xerrors.XError) xerrors.XError
	IterateRange(start, end []byte, ascending bool, cb func(T) xerrors.XError) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Close() xerrors.XError
}
