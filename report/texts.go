package report

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m3rciful/reportbot/core/telegram/format"
)

// User-facing message texts. Telegram Markdown (v1) throughout.

// WelcomeText greets the user on /start.
func WelcomeText(firstName string) string {
	return fmt.Sprintf(
		"👋 Hello %s!\n\n"+
			"Welcome to the Telegram Report Bot. This bot helps you report:\n"+
			"• Suspicious users\n"+
			"• Problematic groups\n"+
			"• Violating channels\n\n"+
			"Please use /report to start a new report.\n"+
			"Use /help to see all available commands.",
		firstName,
	)
}

// HelpText lists commands and the reporting steps.
const HelpText = "📚 **Available Commands:**\n\n" +
	"/start - Start the bot\n" +
	"/help - Show this help message\n" +
	"/report - Report a user, group, or channel\n" +
	"/myreports - View your recent reports\n" +
	"/cancel - Cancel current operation\n\n" +
	"**How to Report:**\n" +
	"1. Use /report command\n" +
	"2. Select what you want to report\n" +
	"3. Provide the username or link\n" +
	"4. Choose a reason\n" +
	"5. Add additional details\n" +
	"6. Confirm your report\n\n" +
	"All reports are reviewed by our team."

// CooldownText tells the user how long to wait before the next report.
func CooldownText(remaining time.Duration) string {
	secs := int(remaining.Seconds())
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("⏰ Please wait %d seconds before creating another report.", secs)
}

const chooseTypeText = "🔍 **What would you like to report?**\n\n" +
	"Please select one of the options below:"

func typeChosenText(t Type) string {
	return fmt.Sprintf(
		"📝 You selected: **%s**\n\n"+
			"Please send the username or invite link of the %s you want to report.\n\n"+
			"Examples:\n"+
			"• Username: @username\n"+
			"• Link: https://t.me/username\n"+
			"• Group link: https://t.me/+abc123...",
		t.Label(), t,
	)
}

const invalidTargetText = "❌ Invalid format. Please provide a valid username or Telegram link.\n\n" +
	"Examples:\n" +
	"• @username\n" +
	"• https://t.me/username\n" +
	"• https://t.me/+abc123..."

const chooseReasonText = "⚠️ **Select a reason for your report:**"

func detailsPromptText(maxLen int) string {
	return fmt.Sprintf(
		"📝 **Please provide additional details:**\n\n"+
			"Include any relevant information that might help us investigate this report.\n"+
			"Maximum %d characters.\n\n"+
			"Send /skip to continue without additional details.",
		maxLen,
	)
}

func detailsTooLongText(maxLen int) string {
	return fmt.Sprintf(
		"❌ Details too long. Maximum %d characters allowed.\n"+
			"Please try again or use /skip to continue without details.",
		maxLen,
	)
}

const summaryDetailsPreview = 200

func summaryText(d Draft) string {
	details := d.Details
	// Preview is capped in runes so the cut never splits a multi-byte
	// character; Telegram rejects payloads with invalid UTF-8.
	if utf8.RuneCountInString(details) > summaryDetailsPreview {
		details = string([]rune(details)[:summaryDetailsPreview])
	}
	return fmt.Sprintf(
		"📋 **Please confirm your report:**\n\n"+
			"**Type:** %s\n"+
			"**Target:** %s\n"+
			"**Reason:** %s\n"+
			"**Details:** %s",
		d.Type.Label(), d.Target, d.Reason.Title(), details,
	)
}

const submittedText = "✅ **Report submitted successfully!**\n\n" +
	"Thank you for helping keep Telegram safe. Our team will review your report.\n" +
	"You can use /report to submit another report."

const cancelledText = "❌ Report cancelled."

// CancelledCommandText is the reply to an explicit /cancel command.
const CancelledCommandText = "❌ Operation cancelled. Use /report to start a new report."

const brokenSessionText = "⚠️ Something went wrong with your report. Please start again with /report."

// MyReportsPlaceholderText is shown when the report archive is not configured.
const MyReportsPlaceholderText = "📊 Your recent reports feature will be available soon.\n" +
	"This would show your last 5 reports and their status."

// AdminText renders the full report message delivered to the channel and admins.
func (c Completed) AdminText() string {
	name := c.Reporter.FullName
	if escaped, err := format.EscapeMarkdown(name, format.MarkdownV1, ""); err == nil {
		name = escaped
	}
	var b strings.Builder
	b.WriteString("🚨 **NEW REPORT**\n\n")
	fmt.Fprintf(&b, "**Report ID:** #%s\n", c.ID)
	fmt.Fprintf(&b, "**Date:** %s\n", c.SubmittedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Reporter:** %s (ID: `%d`)\n", name, c.Reporter.ID)
	fmt.Fprintf(&b, "**Type:** %s\n", c.Draft.Type.Label())
	fmt.Fprintf(&b, "**Target:** %s\n", c.Draft.Target)
	fmt.Fprintf(&b, "**Reason:** %s\n", c.Draft.Reason.Title())
	fmt.Fprintf(&b, "**Details:** %s\n", c.Draft.Details)
	return b.String()
}
