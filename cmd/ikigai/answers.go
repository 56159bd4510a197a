package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ashureev/ikigai/internal/domain"
	"github.com/ashureev/ikigai/internal/store"
)

var answersCmd = &cobra.Command{
	Use:   "answers",
	Short: "Show the saved answers",
	RunE:  runAnswersShow,
}

var answersSetCmd = &cobra.Command{
	Use:   "set [field] [text]",
	Short: "Set one answer (passion, vocation, mission, profession)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnswersSet,
}

var answersClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all saved answers",
	RunE:  runAnswersClear,
}

func init() {
	answersCmd.AddCommand(answersSetCmd, answersClearCmd)
}

func runAnswersShow(cmd *cobra.Command, args []string) error {
	kv, err := openStore()
	if err != nil {
		return err
	}
	defer kv.Close()

	rec := store.LoadAnswers(cmd.Context(), kv)
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	defer enc.Close()
	return enc.Encode(rec)
}

func runAnswersSet(cmd *cobra.Command, args []string) error {
	field, err := domain.ParseField(args[0])
	if err != nil {
		return err
	}

	kv, err := openStore()
	if err != nil {
		return err
	}
	defer kv.Close()

	rec := store.LoadAnswers(cmd.Context(), kv).With(field, args[1])
	if err := store.SaveAnswers(cmd.Context(), kv, rec); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", field)
	return nil
}

func runAnswersClear(cmd *cobra.Command, args []string) error {
	kv, err := openStore()
	if err != nil {
		return err
	}
	defer kv.Close()

	return store.SaveAnswers(cmd.Context(), kv, domain.AnswerRecord{})
}
