package storage

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// PromptForSurvivor asks for the fields of a new survivor on stdin.
func PromptForSurvivor() (name, gender string) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("Survivor name: ")
	scanner.Scan()
	name = strings.TrimSpace(scanner.Text())

	fmt.Print("Gender (M/F, optional): ")
	scanner.Scan()
	gender = strings.TrimSpace(scanner.Text())
	return name, gender
}

// PromptForSettlementName asks for the name of a new settlement.
func PromptForSettlementName() string {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("Settlement name: ")
	scanner.Scan()
	return strings.TrimSpace(scanner.Text())
}
