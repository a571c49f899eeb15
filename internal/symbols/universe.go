package symbols

import "fmt"

// Universe represents a predefined symbol list
type Universe string

const (
	UniverseDefault   Universe = "default"
	UniverseNasdaq100 Universe = "nasdaq100"
	UniverseMegaCap   Universe = "megacap"
)

// GetUniverse returns the list of symbols for a given universe
func GetUniverse(u Universe) ([]string, error) {
	switch u {
	case UniverseDefault, "":
		return DefaultSymbols, nil
	case UniverseNasdaq100:
		return Nasdaq100Symbols, nil
	case UniverseMegaCap:
		return MegaCapSymbols, nil
	default:
		return nil, fmt.Errorf("unknown universe: %s", u)
	}
}

// DefaultSymbols is scanned when no symbols or watchlist are given
var DefaultSymbols = []string{
	"AAPL", "MSFT", "NVDA", "AMZN", "GOOGL",
	"META", "TSLA", "AMD", "NFLX", "AVGO",
}

// MegaCapSymbols are the largest US listings across sectors
var MegaCapSymbols = []string{
	"AAPL", "MSFT", "NVDA", "AMZN", "GOOGL", "META", "BRK.B", "AVGO", "TSLA", "LLY",
	"JPM", "V", "UNH", "XOM", "MA", "COST", "HD", "PG", "JNJ", "WMT",
}

// Nasdaq100Symbols is the NASDAQ-100 components (as of 2024)
var Nasdaq100Symbols = []string{
	"AAPL", "ABNB", "ADBE", "ADI", "ADP", "ADSK", "AEP", "AMAT", "AMD", "AMGN",
	"AMZN", "ANSS", "ARM", "ASML", "AVGO", "AZN", "BIIB", "BKNG", "BKR", "CCEP",
	"CDNS", "CDW", "CEG", "CHTR", "CMCSA", "COST", "CPRT", "CRWD", "CSCO", "CSGP",
	"CSX", "CTAS", "CTSH", "DDOG", "DLTR", "DXCM", "EA", "EXC", "FANG", "FAST",
	"FTNT", "GEHC", "GFS", "GILD", "GOOG", "GOOGL", "HON", "IDXX", "ILMN", "INTC",
	"INTU", "ISRG", "KDP", "KHC", "KLAC", "LIN", "LRCX", "LULU", "MAR", "MCHP",
	"MDB", "MDLZ", "MELI", "META", "MNST", "MRNA", "MRVL", "MSFT", "MU", "NFLX",
	"NVDA", "NXPI", "ODFL", "ON", "ORLY", "PANW", "PAYX", "PCAR", "PDD", "PEP",
	"PYPL", "QCOM", "REGN", "ROP", "ROST", "SBUX", "SMCI", "SNPS", "TEAM", "TMUS",
	"TSLA", "TTD", "TTWO", "TXN", "VRSK", "VRTX", "WBD", "WDAY", "XEL", "ZS",
}
