package terminal

import "strings"

const banner = `    ___    ______      __
   /   |  / ____/_  __/ /____________  ______ ___
  / /| | / /_  / / / / / ___/ ___/ / / / __  __ \
 / ___ |/ __/ / /_/ / / /__/ /  / /_/ / / / / / /
/_/  |_/_/    \__,_/_/\___/_/   \__,_/_/ /_/ /_/

                    Terminal Blog v2.0`

// Welcome is the banner shown when a session starts and, depending on
// PreserveWelcomeOnClear, after clear.
func (s *Session) Welcome() []Block {
	var out []Block
	for _, l := range strings.Split(banner, "\n") {
		out = append(out, Line{Kind: KindBanner, Text: l})
	}
	return append(out,
		success("🚀 welcome to "+s.opts.User+"'s terminal blog!"),
		info(`type "help" to see available commands`),
		gray("💡 tip: ↑↓ browse history, Tab completes, Ctrl+C interrupts, Ctrl+L clears the screen"),
		ruler(),
	)
}
