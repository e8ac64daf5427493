package entity

// SOLMint is the canonical mint address used to price native SOL on the
// aggregator price providers (wrapped SOL).
const SOLMint = "So11111111111111111111111111111111111111112"

// SOLSymbol is the display symbol for the native asset.
const SOLSymbol = "SOL"

// SOLName is the display name for the native asset.
const SOLName = "Solana"

// SOLDecimals is the precision of the native asset.
const SOLDecimals = 9

// LamportsPerSOL is the number of atomic units in one whole SOL.
const LamportsPerSOL = 1_000_000_000

// DefaultTokenDecimals is assumed when the token-index provider omits the
// precision of a mint.
const DefaultTokenDecimals = 6
