package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/reportbot/core/logger"
	tg "github.com/m3rciful/reportbot/core/telegram"
	"github.com/m3rciful/reportbot/core/telegram/callbacks"
	"github.com/m3rciful/reportbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/reportbot/core/telegram/helpers"
	"github.com/m3rciful/reportbot/core/telegram/middleware"
	"github.com/m3rciful/reportbot/report"
	"github.com/m3rciful/reportbot/storage"
)

// reporterFrom builds the domain reporter identity from the update sender.
func reporterFrom(c tele.Context) report.Reporter {
	u := c.Sender()
	if u == nil {
		return report.Reporter{}
	}
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		name = u.Username
	}
	return report.Reporter{ID: u.ID, FullName: name}
}

func (a *App) registerCommands(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Description: "Start the bot",
		Handler: func(c tele.Context) error {
			firstName := ""
			if u := c.Sender(); u != nil {
				firstName = u.FirstName
			}
			return tghelpers.SendMD(c, report.WelcomeText(firstName))
		},
	})

	reg.RegisterCommand("/help", commands.Command{
		Description: "Show available commands",
		Handler: func(c tele.Context) error {
			return tghelpers.SendMD(c, report.HelpText)
		},
	})

	reg.RegisterCommand("/report", commands.Command{
		Description: "Report a user, group, or channel",
		Handler: func(c tele.Context) error {
			ctx := tghelpers.BuildContext(c)
			prompt := a.flow.Start(ctx, reporterFrom(c))
			return sendPrompt(c, prompt)
		},
	})

	reg.RegisterCommand("/myreports", commands.Command{
		Description: "View your recent reports",
		Handler:     a.handleMyReports,
	})

	reg.RegisterCommand("/cancel", commands.Command{
		Description: "Cancel current operation",
		Handler: func(c tele.Context) error {
			ctx := tghelpers.BuildContext(c)
			a.flow.Cancel(ctx, reporterFrom(c))
			return tghelpers.SendMD(c, report.CancelledCommandText)
		},
	})

	reg.RegisterCommand("/skip", commands.Command{
		Description: "Skip the details step",
		Hidden:      true,
		Handler: func(c tele.Context) error {
			ctx := tghelpers.BuildContext(c)
			prompt, ok := a.flow.Skip(ctx, reporterFrom(c))
			if !ok {
				return nil
			}
			return sendPrompt(c, prompt)
		},
	})
}

func (a *App) registerCallbacks(reg *tg.Registry) {
	_ = reg.RegisterCallback(string(report.ActionSelectType), func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		t := report.Type(callbacks.CallbackPayload(c))
		prompt, ok := a.flow.SelectType(ctx, reporterFrom(c), t)
		if !ok {
			return nil
		}
		return editPrompt(c, prompt)
	})

	_ = reg.RegisterCallback(string(report.ActionSelectReason), func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		r := report.Reason(callbacks.CallbackPayload(c))
		prompt, ok := a.flow.SelectReason(ctx, reporterFrom(c), r)
		if !ok {
			return nil
		}
		return editPrompt(c, prompt)
	})

	_ = reg.RegisterCallback(string(report.ActionConfirm), func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		prompt, ok := a.flow.Confirm(ctx, reporterFrom(c))
		if !ok {
			return nil
		}
		return editPrompt(c, prompt)
	})

	_ = reg.RegisterCallback(string(report.ActionCancel), func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		prompt, _ := a.flow.Cancel(ctx, reporterFrom(c))
		return editPrompt(c, prompt)
	})

	// Verdict buttons live on messages delivered to admin chats, but the
	// callback payload is forgeable; gate on the configured admin set.
	adminGate := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AdminIDs: a.cfg.Core.Report.AdminIDs,
	})
	_ = reg.RegisterCallback(string(report.ActionResolve), adminGate(a.verdictHandler(report.VerdictResolved)))
	_ = reg.RegisterCallback(string(report.ActionReject), adminGate(a.verdictHandler(report.VerdictRejected)))
}

// verdictHandler annotates the report message with the admin's decision.
// Only the first decision per report takes effect; later presses get a toast.
func (a *App) verdictHandler(v report.Verdict) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		reportID := callbacks.CallbackPayload(c)

		decided, changed := a.desk.Decide(ctx, reportID, v)
		if !changed {
			if decided == "" {
				return nil
			}
			return c.Respond(&tele.CallbackResponse{
				Text: fmt.Sprintf("Report already %s.", decided),
			})
		}

		msg := c.Message()
		if msg == nil {
			return nil
		}
		return tghelpers.EditMD(c, msg.Text+"\n\n"+v.Annotation())
	}
}

func (a *App) handleMyReports(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	entries, err := a.archive.RecentByReporter(ctx, c.Sender().ID, recentReportsLimit)
	if err != nil {
		if !errors.Is(err, storage.ErrDisabled) {
			logger.Warn(ctx, "report.flow", "myreports.load_failed",
				slog.String("err", err.Error()),
			)
		}
		return tghelpers.SendMD(c, report.MyReportsPlaceholderText)
	}
	return tghelpers.SendMD(c, myReportsText(entries))
}

const recentReportsLimit = 5

func myReportsText(entries []storage.Entry) string {
	if len(entries) == 0 {
		return "📊 You have no reports yet. Use /report to create one."
	}
	var b strings.Builder
	b.WriteString("📊 **Your recent reports:**\n")
	for _, e := range entries {
		status := "pending"
		if e.Verdict != nil && *e.Verdict != "" {
			status = *e.Verdict
		}
		fmt.Fprintf(&b, "\n#%s — %s %s\n", e.ReportID, report.Type(e.Type).Label(), e.Target)
		fmt.Fprintf(&b, "Reason: %s · Status: %s\n", report.Reason(e.Reason).Title(), status)
	}
	return b.String()
}

// InProgress reports whether the user has a report conversation open. Free
// text is routed to the conversation only while this is true.
func (a *App) InProgress(userID int64) bool {
	return a.flow.Active(userID)
}

// ManagerHandler feeds free text into the conversation flow.
func (a *App) ManagerHandler(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	prompt, ok := a.flow.Text(ctx, reporterFrom(c), c.Text())
	if !ok {
		return nil
	}
	return sendPrompt(c, prompt)
}
