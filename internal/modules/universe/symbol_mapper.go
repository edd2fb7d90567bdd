package universe

import "strings"

// exchangeSuffixes maps broker exchange codes to the quote provider's symbol
// suffix. US listings carry no suffix on the provider side.
var exchangeSuffixes = map[string]string{
	"LSE":    ".L",
	"NYSE":   "",
	"NASDAQ": "",
	"US":     "",
	"XETRA":  ".DE",
	"FRA":    ".F",
	"EPA":    ".PA",
	"AMS":    ".AS",
	"BIT":    ".MI",
	"SWX":    ".SW",
	"TSE":    ".TO",
	"ASX":    ".AX",
	"HKEX":   ".HK",
	"TYO":    ".T",
	"MCX":    ".ME",
}

// ProviderSymbol maps a (ticker, exchange) pair to the symbol used by the
// quote provider. Unknown exchange codes fall back to the bare ticker; an
// empty ticker maps to an empty symbol, which downstream code treats as
// "no quote available".
func ProviderSymbol(ticker, exchange string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return ""
	}

	exchange = strings.ToUpper(strings.TrimSpace(exchange))
	suffix, ok := exchangeSuffixes[exchange]
	if !ok {
		return ticker
	}

	return ticker + suffix
}

// SplitTickerExchange splits a combined broker identifier like "OGZD.LSE"
// into its ticker and exchange parts. Identifiers without a separator are
// returned as a bare ticker.
func SplitTickerExchange(identifier string) (string, string) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", ""
	}

	if idx := strings.LastIndex(identifier, "."); idx > 0 {
		return identifier[:idx], identifier[idx+1:]
	}

	return identifier, ""
}
