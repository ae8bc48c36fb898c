package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "revenue-cli",
		Short: "Revenue ledger CLI tool",
		Long:  `A command line interface for the marketplace revenue and payout ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the revenue ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	balanceCmd := &cobra.Command{
		Use:   "balance [seller-id]",
		Short: "Show a seller's pending balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/sellers/" + args[0] + "/balance")
		},
	}
	rootCmd.AddCommand(balanceCmd)

	payoutCmd := &cobra.Command{
		Use:   "payout",
		Short: "Payout operations",
	}

	var transactionRef, notes string

	payoutPaidCmd := &cobra.Command{
		Use:   "paid [payout-id]",
		Short: "Mark a processing payout as paid",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			processPayout(args[0], "paid", transactionRef, notes)
		},
	}
	payoutPaidCmd.Flags().StringVar(&transactionRef, "ref", "", "External transaction reference")
	payoutPaidCmd.Flags().StringVar(&notes, "notes", "", "Operator notes")

	payoutFailedCmd := &cobra.Command{
		Use:   "failed [payout-id]",
		Short: "Mark a processing payout as failed and restore the balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			processPayout(args[0], "failed", transactionRef, notes)
		},
	}
	payoutFailedCmd.Flags().StringVar(&notes, "notes", "", "Operator notes")

	payoutCmd.AddCommand(payoutPaidCmd, payoutFailedCmd)
	rootCmd.AddCommand(payoutCmd)

	reconcileCmd := &cobra.Command{
		Use:   "reconcile [seller-id]",
		Short: "Check balances against the sale and payout ledger",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 1 {
				getJSON("/api/v1/sellers/" + args[0] + "/reconciliation")
				return
			}
			runReconciliation()
		},
	}
	rootCmd.AddCommand(reconcileCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	printIndented(body)
}

func processPayout(payoutID, status, ref, notes string) {
	payload, _ := json.Marshal(map[string]string{
		"status":          status,
		"transaction_ref": ref,
		"notes":           notes,
	})

	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequest(http.MethodPut, baseURL+"/api/v1/payouts/"+payoutID+"/status", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Payout update FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	fmt.Printf("Payout %s marked %s\n", payoutID, status)
	printIndented(body)
}

func runReconciliation() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/reconciliation", "application/json", nil)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Reconciliation FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var report map[string]any
	if err := json.Unmarshal(body, &report); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Reconciliation complete\n")
	fmt.Printf("Total sellers: %v\n", report["total_sellers"])
	fmt.Printf("Reconciled: %v\n", report["reconciled_sellers"])

	if discrepancies, ok := report["discrepancies"].([]any); ok && len(discrepancies) > 0 {
		fmt.Printf("Discrepancies: %d\n", len(discrepancies))
		printIndented(body)
		os.Exit(1)
	}
}

func printIndented(body []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(buf.String())
}
