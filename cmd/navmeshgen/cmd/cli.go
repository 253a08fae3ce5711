package cmd

import (
	"bufio"
	"fmt"
	"os"
)

// confirmIfExists returns true if path doesn't exist, or if the user
// confirms msg on standard input. If ok is false, the caller should abort
// rather than overwrite path.
func confirmIfExists(path, msg string) (ok bool, err error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	return askForConfirmation(msg), nil
}

func askForConfirmation(msg string) bool {
	fmt.Println(msg)
	reader := bufio.NewReader(os.Stdin)
	const defaultInput = 'N'

	for {
		input, _ := reader.ReadString('\n')
		if len(input) == 0 {
			return defaultInput == 'Y'
		}
		switch input[0] {
		case 'Y', 'y':
			return true
		case 'N', 'n', '\n':
			return false
		}
	}
}
