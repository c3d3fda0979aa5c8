package cmd

import (
	"fmt"
	"sort"

	"github.com/tejocr/tejocr/pkg/constants"

	"github.com/spf13/cobra"
)

// modesCmd represents the modes command
var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List page segmentation and engine modes",
	Long: `List the page segmentation modes (--psm) and engine modes (--oem)
the OCR engine accepts, with a short description of each.`,
	Run: func(cmd *cobra.Command, args []string) {
		showModes()
	},
}

func showModes() {
	fmt.Println("📑 Page Segmentation Modes (--psm)")
	fmt.Println("===================================")
	printModeTable(constants.PSMDescriptions, constants.DefaultPSM)

	fmt.Println("\n⚙️  Engine Modes (--oem)")
	fmt.Println("========================")
	printModeTable(constants.OEMDescriptions, constants.DefaultOEM)
}

func printModeTable(descriptions map[int]string, defaultMode int) {
	modes := make([]int, 0, len(descriptions))
	for mode := range descriptions {
		modes = append(modes, mode)
	}
	sort.Ints(modes)

	for _, mode := range modes {
		marker := "  "
		if mode == defaultMode {
			marker = "* "
		}
		fmt.Printf("%s%2d  %s\n", marker, mode, descriptions[mode])
	}
}

func init() {
	rootCmd.AddCommand(modesCmd)
}
