package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rpggio/novx/internal/converter"
)

// promptDecider asks on the terminal whether to overwrite a target.
type promptDecider struct {
	rl *readline.Instance
}

func newPromptDecider() (*promptDecider, error) {
	rl, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "no",
	})
	if err != nil {
		return nil, err
	}
	return &promptDecider{rl: rl}, nil
}

func (p *promptDecider) Decide(path string) converter.Decision {
	p.rl.SetPrompt(fmt.Sprintf("%s exists. Overwrite? [y]es, [o]pen existing, [N]o: ", filepath.Base(path)))
	line, err := p.rl.Readline()
	if err != nil {
		return converter.Cancel
	}
	return parseAnswer(line)
}

func (p *promptDecider) Close() error {
	return p.rl.Close()
}

func parseAnswer(line string) converter.Decision {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return converter.Overwrite
	case "o", "open":
		return converter.OpenExisting
	default:
		return converter.Cancel
	}
}
