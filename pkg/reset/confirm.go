package reset

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the operator for an explicit go-ahead
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to a Confirmer
type ConfirmFunc func(string) (bool, error)

// Confirm calls f
func (f ConfirmFunc) Confirm(prompt string) (bool, error) {
	return f(prompt)
}

// Prompt writes the prompt to out and reads one answer line from in.
//
// Only "y" (any case) is affirmative. Empty input and end of input are a refusal.
func Prompt(in io.Reader, out io.Writer) Confirmer {
	rdr := bufio.NewReader(in)
	return ConfirmFunc(func(prompt string) (bool, error) {
		if _, err := fmt.Fprint(out, prompt); err != nil {
			return false, err
		}
		line, err := rdr.ReadString('\n')
		if err != nil && err != io.EOF {
			return false, err
		}
		return strings.EqualFold(strings.TrimSpace(line), "y"), nil
	})
}

// AssumeYes answers every prompt affirmatively
func AssumeYes() Confirmer {
	return ConfirmFunc(func(string) (bool, error) {
		return true, nil
	})
}
