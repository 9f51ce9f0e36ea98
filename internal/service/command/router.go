package command

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Command is a slash command typed into a chat instead of a question.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, args []string) (string, error)
}

type Router struct {
	commands  map[string]Command
	formatter *ResponseFormatter
}

func New(commands []Command) *Router {
	c := &Router{
		commands:  make(map[string]Command),
		formatter: NewResponseFormatter(),
	}

	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
	}
	return c
}

// Execute runs input when it is a slash command. The bool reports whether it was one;
// the reply is Markdown.
func (c *Router) Execute(ctx context.Context, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	name := strings.TrimPrefix(parts[0], "/")
	// Telegram appends the bot name in groups: /sources@insure_bot
	name, _, _ = strings.Cut(name, "@")
	args := parts[1:]

	if name == "help" {
		return c.help(), true
	}

	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s\n\n%s", name, c.help()), true
	}

	result, err := cmd.Execute(ctx, args)
	if err != nil {
		return c.formatter.Error(err), true
	}
	return result, true
}

func (c *Router) ListCommands() []Command {
	res := make([]Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}

func (c *Router) help() string {
	items := []string{"`/help` show this list"}
	for _, cmd := range c.ListCommands() {
		items = append(items, fmt.Sprintf("`/%s` %s", cmd.Name(), strings.ToLower(cmd.Description())))
	}
	return c.formatter.Combine(c.formatter.Info("Commands"), c.formatter.List(items))
}
