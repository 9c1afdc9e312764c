package listing

// Fixed browser fingerprint presented to the platform. The signature tokens
// are derived over the user agent, so these values must stay in lockstep with
// the client fingerprint the platform expects.
const (
	browserSecUA = `"Chromium";v="142", "Google Chrome";v="142", "Not_A Brand";v="99"`

	browserLanguage = "en-US"
	browserName     = "Mozilla"
	browserPlatform = "MacIntel"

	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36" +
		" (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"
	browserVersion = "5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36" +
		" (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

	screenWidth  = 1512
	screenHeight = 982

	timezoneName = "America/New_York"
)
