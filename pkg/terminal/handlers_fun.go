package terminal

import "time"

const rainbowDuration = 10 * time.Second

var eggs = []string{
	"🥚 congratulations, you found an easter egg!",
	"🎮 Achievement Unlocked: Terminal Explorer",
	"🎯 you unlocked a hidden feature!",
	"🌟 Welcome to the secret area!",
	"🎊 you found a little programmer secret~",
}

var hackSteps = []string{
	"scanning ports...     [████████████] 100%",
	"cracking passwords... [████████████] 100%",
	"escalating access...  [████████████] 100%",
	"downloading data...   [████████████] 100%",
	"covering tracks...    [████████████] 100%",
}

func (c *call) matrix(string) []Block {
	return []Block{
		info("entering matrix mode..."),
		Effect{Name: EffectMatrix, On: true},
		Line{Kind: KindMatrix, Text: "█ █ █ code rain started █ █ █"},
		Line{Kind: KindMatrix, Text: "01001000 01100001 01100011 01101011"},
		info("type 'clear' to leave matrix mode"),
	}
}

func (c *call) easter(string) []Block {
	return []Block{
		success(eggs[c.s.intN(len(eggs))]),
		info("hidden commands unlocked: matrix, hack, particles, rainbow"),
	}
}

func (c *call) hack(string) []Block {
	out := []Block{errorf("hacking into the system...")}
	for i, step := range hackSteps {
		if i == len(hackSteps)-1 {
			out = append(out, success(step))
		} else {
			out = append(out, info(step))
		}
	}
	return append(out, success("🎯 hack complete! just kidding~ 😄"))
}

func (c *call) toggleParticles(string) []Block {
	c.particles = !c.particles
	if c.particles {
		return []Block{Effect{Name: EffectParticles, On: true}, success("✨ particle effect enabled")}
	}
	return []Block{Effect{Name: EffectParticles}, info("particle effect disabled")}
}

func (c *call) rainbow(string) []Block {
	return []Block{
		Effect{Name: EffectRainbow, On: true, Duration: rainbowDuration},
		success("🌈 rainbow mode enabled!"),
		info("type any command to see the rainbow~"),
	}
}

func (c *call) exit(string) []Block {
	c.quit = true
	return []Block{
		success("👋 goodbye! thanks for visiting " + c.s.opts.User + "'s blog"),
		gray("come back any time"),
	}
}
