package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagRunsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Показать сохраненные прохождения",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(flagDBPath)
		if err != nil {
			return err
		}
		if store == nil {
			return fmt.Errorf("хранилище отключено: укажите путь через --db")
		}
		defer store.Close()

		runs, err := store.RecentRuns(flagRunsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("Прохождений пока нет")
			return nil
		}

		for _, r := range runs {
			fmt.Printf("%-20s  уровень %d  %6.1fс  монеты %d/%d  счет %d  (%s)\n",
				r.LevelName, r.LevelIndex, r.Duration, r.Coins, r.CoinsTotal, r.Score,
				r.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "количество последних прохождений")
}
