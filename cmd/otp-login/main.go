// Command otp-login is a terminal front end for the email OTP login flow.
//
// It asks for an email, requests a code, then reads the code one keystroke
// line at a time: digits type into the focused box, "-" is Backspace, "@N"
// clicks box N and an empty line submits.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/otp-login/internal/client"
	"github.com/otp-login/internal/otpinput"
)

type loginClient interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (string, error)
}

func main() {
	api := flag.String("api", "http://localhost:4000", "OTP API base URL")
	length := flag.Int("length", otpinput.DefaultLength, "number of code boxes")
	timeout := flag.Duration("timeout", 30*time.Second, "per-request timeout")
	flag.Parse()

	c := client.New(*api, &http.Client{Timeout: *timeout})
	if err := run(context.Background(), os.Stdin, os.Stdout, c, *length); err != nil {
		log.Fatalf("otp-login: %v", err)
	}
}

func run(ctx context.Context, in io.Reader, out io.Writer, c loginClient, length int) error {
	sc := bufio.NewScanner(in)

	email, err := promptEmail(ctx, sc, out, c)
	if err != nil {
		return err
	}

	a := otpinput.New(length)
	fmt.Fprintln(out, "Enter the code. Digits type, '-' erases, '@N' selects box N, empty line submits.")
	render(out, a)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			msg, _ := a.Submit(ctx, func(ctx context.Context, code string) (string, error) {
				return c.VerifyOTP(ctx, email, code)
			})
			fmt.Fprintln(out, msg)
			return nil
		}
		apply(a, line)
		render(out, a)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}

func promptEmail(ctx context.Context, sc *bufio.Scanner, out io.Writer, c loginClient) (string, error) {
	for {
		fmt.Fprint(out, "Email: ")
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		email := strings.TrimSpace(sc.Text())
		err := c.SendOTP(ctx, email)
		switch {
		case err == nil:
			fmt.Fprintln(out, "OTP sent to", email)
			return email, nil
		case errors.Is(err, client.ErrValidation):
			fmt.Fprintln(out, client.MsgInvalidEmail)
		default:
			fmt.Fprintln(out, client.MsgSendFailed)
		}
	}
}

// apply feeds one input line to the assembler.
func apply(a *otpinput.Assembler, line string) {
	if strings.HasPrefix(line, "@") {
		if n, err := strconv.Atoi(line[1:]); err == nil {
			a.OnSlotActivated(n)
		}
		return
	}
	for _, r := range line {
		if r == '-' {
			a.Erase()
			continue
		}
		a.Type(r)
	}
}

func render(out io.Writer, a *otpinput.Assembler) {
	var b strings.Builder
	for i, s := range a.Slots() {
		if s == "" {
			s = "_"
		}
		if i == a.Focus() {
			fmt.Fprintf(&b, "[%s]", s)
		} else {
			fmt.Fprintf(&b, " %s ", s)
		}
	}
	fmt.Fprintln(out, b.String())
}
