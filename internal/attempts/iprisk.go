package attempts

import "net/netip"

// knownRiskyNetworks lists ranges previously associated with abusive
// submission traffic. Sourced from the ops blocklist; refreshed manually.
var knownRiskyNetworks = []netip.Prefix{
	netip.MustParsePrefix("185.220.100.0/22"),
	netip.MustParsePrefix("45.134.144.0/22"),
	netip.MustParsePrefix("89.248.160.0/21"),
}

// IPRiskScore assigns a small additive risk contribution based on the client
// IP. Absent or unparseable addresses score 10 because the gateway should
// always supply one.
func IPRiskScore(ip string) int {
	if ip == "" {
		return 10
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return 10
	}
	for _, prefix := range knownRiskyNetworks {
		if prefix.Contains(addr) {
			return 20
		}
	}
	if addr.IsPrivate() || addr.IsLoopback() {
		return 5
	}
	return 0
}
