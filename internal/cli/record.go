package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/courtside/internal/app/recorder"
	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/logs"
)

const defaultFoul = "PF"

const recordHelp = `commands:
  zone <1-9>              select the court zone
  shot make|miss          select a field goal attempt
  ft make|miss            select a free throw (no zone)
  reb off|def             select a rebound
  foul [kind]             select a foul (default PF)
  player <id|#num>        commit the selection for a player
  assist <id|#num>|skip   credit or skip the assist on the last made shot
  undo                    remove the latest log
  reset                   clear the pending selection
  quarter <1-5>           switch quarter (5 is OT)
  next                    advance one quarter
  lineup <id|#num>...     set the players on the floor this quarter
  history                 list this game's logs
  fix <logId> <player>    reassign a log to another player
  del <logId>             delete a log
  score                   show the score
  quit                    leave the session`

var errQuit = errors.New("quit")

func newRecordCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "record <game>",
		Short: "Record a game interactively",
		Long:  "Record a game interactively, one command per line.\n\n" + recordHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			g, err := a.resolveGame(args[0])
			if err != nil {
				return err
			}
			session := recorder.NewSession(a.games, a.opts.Clock, a.logger)
			if err := session.SetCurrentGame(g.ID); err != nil {
				return err
			}
			r := &recordREPL{app: a, session: session, out: cmd.OutOrStdout()}
			fmt.Fprintf(r.out, "recording vs %s on %s, type help for commands\n", g.OpponentName, g.GameDate)
			return r.Run(cmd.InOrStdin())
		},
	}
}

// recordREPL drives a recorder session from text commands.
type recordREPL struct {
	app     *app
	session *recorder.Session
	out     io.Writer

	// pendingShot is the made shot awaiting an assist decision.
	pendingShot *logs.Log
}

// Run reads commands until quit or end of input. Command mistakes are
// printed and the loop continues; storage failures end it.
func (r *recordREPL) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	r.prompt()
	for scanner.Scan() {
		err := r.Exec(scanner.Text())
		switch {
		case errors.Is(err, errQuit):
			return nil
		case isUsage(err):
			fmt.Fprintln(r.out, "!", err)
		case err != nil:
			return err
		}
		r.prompt()
	}
	return scanner.Err()
}

func (r *recordREPL) prompt() {
	step := string(r.session.Step())
	if r.pendingShot != nil {
		step = "assist"
	}
	fmt.Fprintf(r.out, "[%s %s] > ", r.session.Quarter(), step)
}

// Exec runs a single command line.
func (r *recordREPL) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]

	switch verb {
	case "help", "?":
		fmt.Fprintln(r.out, recordHelp)
	case "quit", "exit", "q":
		return errQuit
	case "zone", "z":
		n, err := intArg(args, "zone")
		if err != nil {
			return err
		}
		if n < logs.MinZone || n > logs.MaxZone {
			return usagef("zone must be between %d and %d", logs.MinZone, logs.MaxZone)
		}
		r.session.SelectZone(n)
	case "shot", "ft", "reb":
		return r.selectAction(verb, args)
	case "foul":
		kind := defaultFoul
		if len(args) > 0 {
			kind = strings.ToUpper(args[0])
		}
		r.session.SelectAction(logs.ActionFoul, kind)
	case "player", "p":
		return r.commit(args)
	case "assist", "a":
		return r.assist(args)
	case "undo", "u":
		return r.report(r.session.Undo())
	case "reset":
		r.session.ResetInput()
		r.pendingShot = nil
	case "quarter":
		n, err := intArg(args, "quarter")
		if err != nil {
			return err
		}
		if err := r.session.SetQuarter(games.Quarter(n)); err != nil {
			return usagef("quarter must be between 1 and %d", games.QuarterCount)
		}
	case "next":
		if out := r.session.NextQuarter(); !out.Applied() {
			fmt.Fprintln(r.out, "ignored:", out.Reason)
		}
	case "lineup":
		ids, err := r.app.resolvePlayers(args)
		if err != nil {
			return usagef("%v", err)
		}
		return r.report(r.session.ConfirmLineup(r.session.Quarter(), ids))
	case "history", "h":
		r.history()
	case "fix":
		if len(args) != 2 {
			return usagef("usage: fix <logId> <player>")
		}
		l, err := r.resolveLog(args[0])
		if err != nil {
			return err
		}
		p, err := r.app.resolvePlayer(args[1])
		if err != nil {
			return usagef("%v", err)
		}
		return r.report(r.session.ReassignLog(l.ID, p.ID))
	case "del", "delete":
		if len(args) != 1 {
			return usagef("usage: del <logId>")
		}
		l, err := r.resolveLog(args[0])
		if err != nil {
			return err
		}
		return r.report(r.session.DeleteLog(l.ID))
	case "score":
		r.score()
	default:
		return usagef("unknown command %q, type help", verb)
	}
	return nil
}

func (r *recordREPL) selectAction(verb string, args []string) error {
	if len(args) != 1 {
		return usagef("usage: %s <result>", verb)
	}
	result := strings.ToLower(args[0])
	switch verb {
	case "shot", "ft":
		action := logs.ActionShot
		if verb == "ft" {
			action = logs.ActionFT
		}
		switch result {
		case "make", "made", "in":
			r.session.SelectAction(action, logs.ResultMake)
		case "miss", "out":
			r.session.SelectAction(action, logs.ResultMiss)
		default:
			return usagef("%s takes make or miss", verb)
		}
	case "reb":
		switch result {
		case "off", "o":
			r.session.SelectAction(logs.ActionReb, logs.ResultOff)
		case "def", "d":
			r.session.SelectAction(logs.ActionReb, logs.ResultDef)
		default:
			return usagef("reb takes off or def")
		}
	}
	return nil
}

func (r *recordREPL) commit(args []string) error {
	if len(args) != 1 {
		return usagef("usage: player <id|#num>")
	}
	p, err := r.app.resolvePlayer(args[0])
	if err != nil {
		return usagef("%v", err)
	}
	out, err := r.session.SelectPlayer(p.ID)
	if err != nil {
		return err
	}
	if !out.Applied() {
		fmt.Fprintln(r.out, "ignored:", out.Reason)
		return nil
	}
	fmt.Fprintf(r.out, "logged %s\n", r.describe(*out.Log))
	r.pendingShot = nil
	if out.AssistEligible() {
		r.pendingShot = out.Log
		candidates := r.session.AssistCandidates(*out.Log)
		labels := make([]string, 0, len(candidates))
		for _, id := range candidates {
			labels = append(labels, r.app.playerLabel(id))
		}
		fmt.Fprintf(r.out, "assist? %s (or skip)\n", strings.Join(labels, ", "))
	}
	return nil
}

func (r *recordREPL) assist(args []string) error {
	if r.pendingShot == nil {
		return usagef("no made shot waiting for an assist")
	}
	if len(args) != 1 {
		return usagef("usage: assist <id|#num>|skip")
	}
	if strings.EqualFold(args[0], "skip") {
		r.pendingShot = nil
		return nil
	}
	p, err := r.app.resolvePlayer(args[0])
	if err != nil {
		return usagef("%v", err)
	}
	out, err := r.session.AddAssist(p.ID, *r.pendingShot)
	if err != nil {
		return err
	}
	if !out.Applied() {
		fmt.Fprintln(r.out, "ignored:", out.Reason)
		return nil
	}
	r.pendingShot = nil
	fmt.Fprintf(r.out, "logged %s\n", r.describe(*out.Log))
	return nil
}

// report prints the outcome of a session operation; storage errors pass through.
func (r *recordREPL) report(out recorder.Outcome, err error) error {
	if err != nil {
		return err
	}
	if !out.Applied() {
		fmt.Fprintln(r.out, "ignored:", out.Reason)
		return nil
	}
	if len(out.Removed) > 0 {
		if r.pendingShot != nil {
			for _, id := range out.Removed {
				if id == r.pendingShot.ID {
					r.pendingShot = nil
					break
				}
			}
		}
		fmt.Fprintf(r.out, "removed %d log(s)\n", len(out.Removed))
		return nil
	}
	if out.Log != nil {
		fmt.Fprintf(r.out, "updated %s\n", r.describe(*out.Log))
		return nil
	}
	fmt.Fprintln(r.out, "ok")
	return nil
}

func (r *recordREPL) resolveLog(ref string) (logs.Log, error) {
	l, err := resolveByID(r.app.games.GameLogs(r.session.CurrentGame()), ref, func(l logs.Log) string { return l.ID }, errUnknownLog)
	if err != nil {
		return logs.Log{}, usagef("%v", err)
	}
	return l, nil
}

func (r *recordREPL) history() {
	entries := r.app.games.GameLogs(r.session.CurrentGame())
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "no logs yet")
		return
	}
	for _, l := range entries {
		fmt.Fprintf(r.out, "%s  %s  %s\n", shortID(l.ID), l.Quarter, r.describe(l))
	}
}

func (r *recordREPL) score() {
	gameID := r.session.CurrentGame()
	g, _ := r.app.games.Game(gameID)
	fmt.Fprintf(r.out, "us %d - %d %s\n", r.app.games.TeamScore(gameID), g.OpponentScore, g.OpponentName)
}

func (r *recordREPL) describe(l logs.Log) string {
	var b strings.Builder
	switch l.Action {
	case logs.ActionAssist:
		fmt.Fprintf(&b, "AST %s", r.app.playerLabel(l.PlayerID))
		if l.ScorerPlayerID != nil {
			fmt.Fprintf(&b, " to %s", r.app.playerLabel(*l.ScorerPlayerID))
		}
		return b.String()
	default:
		fmt.Fprintf(&b, "%s %s %s", l.Action, l.Result, r.app.playerLabel(l.PlayerID))
	}
	if l.ZoneID != nil {
		fmt.Fprintf(&b, " zone %d", *l.ZoneID)
	}
	return b.String()
}

func intArg(args []string, name string) (int, error) {
	if len(args) != 1 {
		return 0, usagef("usage: %s <n>", name)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, usagef("%s must be a number", name)
	}
	return n, nil
}

func isUsage(err error) bool {
	var u usageError
	return errors.As(err, &u)
}
