package types

import (
	"encoding/json"

	"github.com/holiman/uint256"

	"github.com/ion-dao/ion-go/types"
	"github.com/ion-dao/ion-go/types/xerrors"
)

// TransferMsg moves funds out of the module account. Emitted when a
// deposit is refunded or confiscated.
type TransferMsg struct {
	To     types.Address `json:"to"`
	Amount *uint256.Int  `json:"amount"`
}

func NewTransferMsg(to types.Address, amt *uint256.Int) TransferMsg {
	return TransferMsg{To: to, Amount: amt.Clone()}
}

// ActionMsg is one opaque action carried by a proposal. The engine stores
// and returns the payload as-is; interpretation belongs to the executor.
type ActionMsg struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (m ActionMsg) Validate() xerrors.XError {
	if m.Type == "" {
		return xerrors.NewOrdinary("action type is empty")
	}
	return nil
}
