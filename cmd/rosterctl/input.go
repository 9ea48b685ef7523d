package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"google.golang.org/grpc/status"

	"github.com/dtroode/roundrobin/internal/client"
)

// readPassword is replaced in tests.
var readPassword = term.ReadPassword

// promptLine prints prompt to w and reads one trimmed line.
func promptLine(reader *bufio.Reader, w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo.
func promptPassword(w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// describe turns an error into a single line for the terminal.
func describe(err error) string {
	if errors.Is(err, client.ErrNotSignedIn) {
		return "not signed in, run `rosterctl login` first"
	}
	if st, ok := status.FromError(err); ok {
		msg := st.Message()
		if ids := client.FailedIDs(err); len(ids) > 0 {
			msg = fmt.Sprintf("%s (failed ids: %v)", msg, ids)
		}
		return fmt.Sprintf("%s: %s", strings.ToLower(st.Code().String()), msg)
	}
	return err.Error()
}
