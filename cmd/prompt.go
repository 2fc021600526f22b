package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// terminalPrompter reads credentials and authorization codes from an input
// stream, normally os.Stdin. Implements [services.CredentialPrompter] and
// [services.CodePrompter].
type terminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminalPrompter(in io.Reader, out io.Writer) *terminalPrompter {
	return &terminalPrompter{in: bufio.NewReader(in), out: out}
}

func (p *terminalPrompter) readLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *terminalPrompter) Credentials() (string, string, error) {
	username, err := p.readLine("MangaDex username: ")
	if err != nil {
		return "", "", err
	}
	password, err := p.readLine("MangaDex password: ")
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

func (p *terminalPrompter) Code() (string, error) {
	return p.readLine("After authorizing, paste the 'code' parameter from the redirect URL here: ")
}
