package model

// Mint button labels
const (
	LabelLoading = "Loading..."
	LabelSoldOut = "SOLD OUT"
	LabelSignIn  = "Sign in to Mint"
)

// ButtonState is the rendered state of the mint button
type ButtonState struct {
	Disabled bool   `json:"disabled"`
	Label    string `json:"label"`
}

// MintButton derives the mint button from the drop state and the connected address.
// Loading takes precedence over sold out, which takes precedence over a missing wallet.
func MintButton(state *DropState, address string) ButtonState {
	loading := state == nil || state.Loading
	soldOut := !loading && state.SoldOut()

	btn := ButtonState{Disabled: loading || soldOut || address == ""}
	switch {
	case loading:
		btn.Label = LabelLoading
	case soldOut:
		btn.Label = LabelSoldOut
	case address == "":
		btn.Label = LabelSignIn
	case state.Condition == nil:
		btn.Label = "Mint NFT"
	default:
		btn.Label = "Mint NFT (" + state.Condition.DisplayPrice() + " " + state.Condition.CurrencySymbol + ")"
	}
	return btn
}
