package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/s0shaw/cin/internal/imageio"
	"github.com/s0shaw/cin/internal/pipeline"
)

const (
	menuInput  = "input_image.png"
	menuOutput = "encoded_image.png"
)

const banner = `
   ___ ___ _  _
  / __|_ _| \| |
 | (__ | || .' |
  \___|___|_|\_|

  Code Inside Nothing
`

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive encode/decode using input_image.png and encoded_image.png",
	Args:  cobra.NoArgs,
	RunE:  runMenu,
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())

	fmt.Fprint(out, banner)
	fmt.Fprintln(out, "========================================")
	fmt.Fprintln(out, " [1] Encode (Hide Message into Image)")
	fmt.Fprintln(out, " [2] Decode (Read Message from Image)")
	fmt.Fprintln(out, " [Q] Quit")
	fmt.Fprintln(out, "========================================")
	fmt.Fprint(out, "\nroot@cin:~$ Select option (1/2): ")

	choice, err := readLine(in)
	if err != nil {
		return err
	}

	codec, err := codecFor(cmd)
	if err != nil {
		return err
	}

	switch strings.ToLower(choice) {
	case "1":
		if _, err := os.Stat(menuInput); err != nil {
			fmt.Fprintf(out, "\n[!] Error: '%s' not found.\n", menuInput)
			return nil
		}
		fmt.Fprint(out, "Enter secret message: ")
		message, err := readSecret(cmd.InOrStdin(), in)
		if err != nil {
			return err
		}
		res, err := pipeline.Encode(pipeline.EncodeOptions{
			Input:   menuInput,
			Output:  menuOutput,
			Message: message,
			Codec:   codec,
			Logger:  logger,
		})
		if err != nil {
			menuError(out, err)
			return nil
		}
		fmt.Fprintf(out, "[Info] Encoding message... Total bits to hide: %d\n", res.Capacity.RequiredBits)
		fmt.Fprintf(out, "[Success] Message encoded! Image saved as '%s'\n", menuOutput)

	case "2":
		res, err := pipeline.Decode(pipeline.DecodeOptions{Input: menuOutput, Codec: codec, Logger: logger})
		if err != nil {
			menuError(out, err)
			return nil
		}
		fmt.Fprintf(out, "\n[+] DECODED MESSAGE: %s\n", res.Text)

	case "q":
		fmt.Fprintln(out, "\n[!] Exiting...")

	default:
		fmt.Fprintln(out, "\n[!] Invalid selection.")
	}
	return nil
}

func menuError(out io.Writer, err error) {
	if errors.Is(err, imageio.ErrInputNotFound) {
		fmt.Fprintf(out, "\n[!] Error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "\n[!] %v\n", err)
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readSecret reads the message without echo when stdin is a terminal.
func readSecret(stdin io.Reader, buffered *bufio.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) && buffered.Buffered() == 0 {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("reading message: %w", err)
		}
		return string(secret), nil
	}
	line, err := readLine(buffered)
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	return line, err
}
