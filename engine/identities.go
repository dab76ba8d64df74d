package engine

import "math/rand"

// Immutable identity tables for the impersonation strategies. Read
// concurrently without synchronization.

const desktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

var googlebotUAs = []string{
	"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
	"Mozilla/5.0 AppleWebKit/537.36 (KHTML, like Gecko; compatible; Googlebot/2.1; +http://www.google.com/bot.html) Chrome/131.0.0.0 Safari/537.36",
	"Googlebot/2.1 (+http://www.google.com/bot.html)",
	"Mozilla/5.0 (Linux; Android 6.0.1; Nexus 5X Build/MMB29P) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Mobile Safari/537.36 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
}

// Google-owned crawler IPv4 addresses, used for X-Forwarded-For spoofing.
var googleIPs = []string{
	"66.249.66.1",
	"66.249.66.65",
	"66.249.66.129",
	"66.249.64.2",
	"66.249.79.96",
	"64.233.173.33",
}

var bingbotUAs = []string{
	"Mozilla/5.0 (compatible; bingbot/2.0; +http://www.bing.com/bingbot.htm)",
	"Mozilla/5.0 AppleWebKit/537.36 (KHTML, like Gecko; compatible; bingbot/2.0; +http://www.bing.com/bingbot.htm) Chrome/116.0.1938.76 Safari/537.36",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 7_0 like Mac OS X) AppleWebKit/537.51.1 (KHTML, like Gecko) Version/7.0 Mobile/11A465 Safari/9537.53 (compatible; bingbot/2.0; +http://www.bing.com/bingbot.htm)",
}

// Microsoft-owned crawler IPv4 addresses.
var bingIPs = []string{
	"157.55.39.1",
	"157.55.39.250",
	"207.46.13.20",
	"40.77.167.5",
	"13.66.139.0",
}

var facebookUAs = []string{
	"facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)",
	"facebookexternalhit/1.1",
	"Facebot/1.0",
}

func pick(list []string) string {
	return list[rand.Intn(len(list))]
}
