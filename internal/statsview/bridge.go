package statsview

import (
	"log"
	"strings"
)

// Bridge command names sent by rendered content.
const cmdBrowserSearch = "browserSearch"

// OnBridgeCommand handles a command posted by the rendered page and reports
// whether it was recognised. "browserSearch:<query>" opens the card browser
// with <query>. Unknown or throttled commands are logged and ignored.
func (c *Controller) OnBridgeCommand(cmd string) bool {
	if err := c.ready(); err != nil {
		log.Printf("[StatsView] Ignoring bridge command %q: %v", cmd, err)
		return false
	}
	if !c.limiter.Allow() {
		log.Printf("[StatsView] Bridge command rate exceeded, dropping %q", cmd)
		return false
	}

	name, arg, found := strings.Cut(cmd, ":")
	switch {
	case found && name == cmdBrowserSearch:
		if err := c.deps.Browser.OpenAndSearch(c.ctx, arg); err != nil {
			log.Printf("[StatsView] Browser search %q failed: %v", arg, err)
		}
		return true
	default:
		log.Printf("[StatsView] Unhandled bridge command: %q", cmd)
		return false
	}
}
