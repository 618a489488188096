package main

import (
	"fmt"

	"surveybot/internal/sink"
	"surveybot/internal/survey"

	"github.com/spf13/cobra"
)

// previewCmd печатает пример сообщения об отправленной анкете
func previewCmd() *cobra.Command {
	var whatsApp string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print a sample submission message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text := survey.Format(sampleAnswers())
			fmt.Fprintln(cmd.OutOrStdout(), text)
			if link := sink.WhatsAppLink(whatsApp, text); link != "" {
				fmt.Fprintln(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), link)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&whatsApp, "whatsapp", "", "номер WhatsApp для ссылки")
	return cmd
}

// sampleAnswers возвращает заполненную анкету для предпросмотра
func sampleAnswers() survey.Answers {
	w := survey.NewWizard(nil)
	w.Update(
		survey.MustChange(survey.Choose(survey.FieldBusinessType, "supermarket")),
		survey.MustChange(survey.Choose(survey.FieldBusinessSize, "2-5")),
		survey.MustChange(survey.Number(survey.FieldDailyTransactions, 250)),
		survey.MustChange(survey.SetMembers(survey.FieldChallenges, "timeConsuming", "counterfeit")),
		survey.MustChange(survey.Number(survey.FieldPainLevel, 7)),
		survey.MustChange(survey.Choose(survey.FieldCurrentSolution, "manual")),
		survey.MustChange(survey.SetMembers(survey.FieldFeatures, "autoCount", "realTimeReports")),
		survey.MustChange(survey.Choose(survey.FieldTechComfort, "cautious")),
		survey.MustChange(survey.Choose(survey.FieldBudgetRange, "300-500")),
		survey.MustChange(survey.Text(survey.FieldBusinessGoals, "Open a third branch in Kumasi")),
		survey.MustChange(survey.Text(survey.FieldBiggestWish, "Know my takings without counting by hand")),
		survey.MustChange(survey.Choose(survey.FieldBetaInterest, "yes")),
		survey.MustChange(survey.Text(survey.FieldContactName, "Ama Mensah")),
		survey.MustChange(survey.Text(survey.FieldContactEmail, "ama@example.com")),
		survey.MustChange(survey.Text(survey.FieldContactPhone, "+233 24 000 0000")),
		survey.MustChange(survey.Text(survey.FieldBusinessLocation, "Accra")),
	)
	return w.Answers()
}
