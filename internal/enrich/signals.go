package enrich

import "strings"

const (
	SignalHiring     = "Careers page or hiring mentions detected"
	SignalContent    = "Content updates (blog/news) mentioned"
	SignalDocs       = "Docs/documentation mentioned"
	SignalAccessible = "Public website accessible"

	maxSignals = 4
)

// GuessSignals derives coarse presence signals from page text by keyword matching.
func GuessSignals(text string) []string {
	t := strings.ToLower(text)
	signals := make([]string, 0, maxSignals)
	if strings.Contains(t, "careers") || strings.Contains(t, "jobs") {
		signals = append(signals, SignalHiring)
	}
	if strings.Contains(t, "blog") || strings.Contains(t, "news") {
		signals = append(signals, SignalContent)
	}
	if strings.Contains(t, "docs") || strings.Contains(t, "documentation") {
		signals = append(signals, SignalDocs)
	}
	if len(signals) == 0 {
		signals = append(signals, SignalAccessible)
	}
	if len(signals) > maxSignals {
		signals = signals[:maxSignals]
	}
	return signals
}
