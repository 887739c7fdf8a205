package entity

// NetworkFamily groups networks that share an address format.
type NetworkFamily string

const (
	// FamilyEVM covers Ethereum and EVM-compatible chains (20-byte hex addresses).
	FamilyEVM NetworkFamily = "evm"
	// FamilySolana covers Solana (base58 public keys).
	FamilySolana NetworkFamily = "solana"
)

// NetworkDefinition holds the static description of a network the router can quote on.
// Identifier is the lowercase name used on the wire (e.g. "ethereum", "bsc", "solana").
type NetworkDefinition struct {
	ChainID      uint64        `json:"chainId" yaml:"chainId"`
	Name         string        `json:"name" yaml:"name"`
	Identifier   string        `json:"identifier" yaml:"identifier"`
	Family       NetworkFamily `json:"family" yaml:"family"`
	NativeSymbol string        `json:"nativeSymbol" yaml:"nativeSymbol"`
	Decimals     uint8         `json:"decimals" yaml:"decimals"` // native token precision
}
