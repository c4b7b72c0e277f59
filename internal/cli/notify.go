package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// printNotifier surfaces gateway outcomes on the terminal, the way the
// web client surfaces them as toasts.
type printNotifier struct{}

func (printNotifier) Success(msg string) { fmt.Println("✅ " + msg) }
func (printNotifier) Error(msg string)   { fmt.Fprintln(os.Stderr, "❌ "+msg) }

// promptConfirmer asks y/N on stdin. AssumeYes short-circuits it for
// scripted use.
type promptConfirmer struct {
	AssumeYes bool
}

func (p *promptConfirmer) Confirm(prompt string) bool {
	if p.AssumeYes {
		return true
	}
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
