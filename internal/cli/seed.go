package cli

// #region imports
import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/docs"
)

// #endregion

// #region command

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample document corpus into the database",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := buildApp()
		if err != nil {
			exitErr("startup", err)
		}
		defer a.close()

		ctx := context.Background()
		for _, d := range sampleCorpus() {
			if err := a.documents.Put(ctx, d); err != nil {
				exitErr(fmt.Sprintf("seed %s", d.ID), err)
			}
			a.log.Infow("[SEED] stored document", "id", d.ID, "type", d.Type)
		}
		fmt.Printf("seeded %d documents into %s\n", len(sampleCorpus()), a.cfg.DBPath)
	},
}

func init() {
	RootCmd.AddCommand(seedCmd)
}

// #endregion command

// #region corpus

// sampleCorpus returns a small mixed corpus of invoices, reports, and notes
// for local experimentation.
func sampleCorpus() []docs.Document {
	now := time.Now().UTC()
	return []docs.Document{
		{
			ID:    "INV-001",
			Type:  "invoice",
			Title: "Invoice INV-001 - Acme Consulting",
			Content: "Invoice INV-001 issued to Northwind Ltd for consulting services.\n" +
				"Subtotal: $20,000\nTax: $2,000\nTotal: $22,000\nDue within 30 days.",
			Amount:   22000,
			Currency: "USD",
		},
		{
			ID:    "INV-002",
			Type:  "invoice",
			Title: "Invoice INV-002 - Infrastructure Migration",
			Content: "Invoice INV-002 issued to Northwind Ltd for the Q2 infrastructure migration.\n" +
				"Subtotal: $63,000\nTax: $6,300\nTotal: $69,300\nDue within 45 days.",
			Amount:   69300,
			Currency: "USD",
		},
		{
			ID:    "INV-003",
			Type:  "invoice",
			Title: "Invoice INV-003 - Annual Support Contract",
			Content: "Invoice INV-003 issued to Northwind Ltd for the annual support contract.\n" +
				"Subtotal: $195,000\nTax: $19,500\nTotal: $214,500\nDue within 60 days.",
			Amount:   214500,
			Currency: "USD",
		},
		{
			ID:    "RPT-101",
			Type:  "report",
			Title: "Q2 Revenue Report",
			Content: "Quarterly revenue report. Consulting revenue grew 14% quarter over quarter, " +
				"driven by the Northwind engagement. Support renewals held steady. Infrastructure " +
				"migration work contributed the largest single line item this quarter.",
			CreatedAt: now,
		},
		{
			ID:    "RPT-102",
			Type:  "report",
			Title: "Vendor Spend Review",
			Content: "Annual vendor spend review. Cloud hosting remains the largest expense category. " +
				"Recommendation: consolidate overlapping monitoring subscriptions and renegotiate the " +
				"support contract before renewal.",
			CreatedAt: now,
		},
		{
			ID:    "NOTE-201",
			Type:  "note",
			Title: "Northwind account notes",
			Content: "Northwind prefers invoices split per engagement. Primary contact is the finance " +
				"team; escalations go through the account manager. Payment history is clean.",
			CreatedAt: now,
		},
	}
}

// #endregion corpus
