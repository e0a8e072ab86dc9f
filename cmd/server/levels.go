package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Показать последовательность уровней",
	RunE: func(cmd *cobra.Command, args []string) error {
		levels, err := loadLevels()
		if err != nil {
			return err
		}

		for i, lvl := range levels {
			fmt.Printf("%d. %s  (платформы: %d, препятствия: %d, предметы: %d)\n",
				i, lvl.Name, len(lvl.Platforms), len(lvl.Obstacles), len(lvl.Collectibles))
		}
		return nil
	},
}
