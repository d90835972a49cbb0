package main

import (
	"attendance/client/api"
	"attendance/client/view"
	"attendance/config"
	"attendance/domain"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	date    string
	classID string
	envFile string
}

// newController wires the API client and a view controller that prints
// notices to stdout, then mounts it.
func newController(cmd *cobra.Command, g *globalFlags) (*view.Controller, error) {
	var envErr error
	if g.envFile != "" {
		if err := config.LoadEnv(g.envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", g.envFile, err)
		}
	} else {
		envErr = config.LoadEnv()
	}

	log := config.GetLogrusInstance()
	log.SetOutput(cmd.ErrOrStderr())
	if envErr != nil {
		log.WithError(envErr).Debug("no .env file loaded")
	}

	client := api.NewClient(config.GetAPIBaseURL(),
		api.WithToken(config.GetAPIToken()),
		api.WithTimeout(config.GetAPITimeout()),
		api.WithLogger(log),
	)

	out := cmd.OutOrStdout()
	notifier := view.NotifierFunc(func(n view.Notice) {
		fmt.Fprintf(out, "[%s] %s\n", n.Level, n.Message)
	})

	ctrl := view.NewController(client,
		view.WithDate(g.date),
		view.WithClass(g.classID),
		view.WithNotifier(notifier),
		view.WithLogger(log.WithField("component", "view")),
		view.WithSession(config.GetStandardSession()),
	)
	if err := ctrl.Mount(cmd.Context()); err != nil {
		log.WithError(err).Debug("mount finished with errors")
	}
	return ctrl, nil
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "attendance",
		Short:         "Review and record daily class attendance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.date, "date", time.Now().Format("2006-01-02"), "Attendance date (YYYY-MM-DD)")
	root.PersistentFlags().StringVar(&g.classID, "class", "", "Class id to scope the view to")
	root.PersistentFlags().StringVar(&g.envFile, "env", "", "Env file to load instead of .env")

	root.AddCommand(newViewCmd(g), newMarkCmd(g), newBulkCmd(g))
	return root
}

func newViewCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Print the summary, records and roster for the selected date and class",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := newController(cmd, g)
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), ctrl)
			return nil
		},
	}
}

func newMarkCmd(g *globalFlags) *cobra.Command {
	var draft domain.MarkDraft

	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Record attendance for one student",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := newController(cmd, g)
			if err != nil {
				return err
			}
			if err := ctrl.OpenMarkDialog(); err != nil {
				return err
			}
			if err := ctrl.UpdateMarkDraft(func(d *domain.MarkDraft) {
				d.StudentID = draft.StudentID
				d.ClassID = draft.ClassID
				if d.ClassID == "" {
					d.ClassID = g.classID
				}
				if draft.Status != "" {
					d.Status = draft.Status
				}
				d.TimeIn = draft.TimeIn
				d.TimeOut = draft.TimeOut
				d.Remarks = draft.Remarks
			}); err != nil {
				return err
			}
			return ctrl.SubmitMark(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&draft.StudentID, "student", "", "Student id")
	cmd.Flags().StringVar(&draft.ClassID, "class-id", "", "Class id (defaults to --class)")
	cmd.Flags().StringVar(&draft.Status, "status", "", "present, absent or late (default present)")
	cmd.Flags().StringVar(&draft.TimeIn, "time-in", "", "Arrival time HH:MM:SS")
	cmd.Flags().StringVar(&draft.TimeOut, "time-out", "", "Departure time HH:MM:SS")
	cmd.Flags().StringVar(&draft.Remarks, "remarks", "", "Free text remarks")
	return cmd
}

func newBulkCmd(g *globalFlags) *cobra.Command {
	var (
		statuses    map[string]string
		remarks     map[string]string
		allUnmarked string
	)

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Record attendance for many students of the selected class at once",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := newController(cmd, g)
			if err != nil {
				return err
			}
			if err := ctrl.OpenBulkDialog(); err != nil {
				return err
			}

			if allUnmarked != "" {
				n, err := ctrl.MarkAllUnmarked(allUnmarked)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d unmarked students set to %s\n", n, allUnmarked)
			}
			for raw, status := range statuses {
				id, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("--status %s=%s: %w", raw, status, view.ErrInvalidID)
				}
				if err := ctrl.SetBulkStatus(id, status); err != nil {
					return err
				}
			}
			for raw, text := range remarks {
				id, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("--remarks %s: %w", raw, view.ErrInvalidID)
				}
				if err := ctrl.SetBulkRemarks(id, text); err != nil {
					return err
				}
			}

			return ctrl.SubmitBulk(cmd.Context())
		},
	}
	cmd.Flags().StringToStringVar(&statuses, "status", nil, "Per-student status, e.g. --status 7=absent,9=late")
	cmd.Flags().StringToStringVar(&remarks, "remarks", nil, "Per-student remarks, e.g. --remarks 7=sick")
	cmd.Flags().StringVar(&allUnmarked, "all-unmarked", "", "Set this status on every unmarked student first")
	return cmd
}

func printState(out io.Writer, ctrl *view.Controller) {
	s := ctrl.Snapshot()

	fmt.Fprintf(out, "Date: %s  Class: %s\n", s.Date, orDash(s.ClassID))
	if s.Summary != nil {
		fmt.Fprintf(out, "Total %d  Present %d  Absent %d  Late %d  Attendance %s%%  Absentee %s%%\n",
			s.Summary.TotalRecords, s.Summary.PresentCount, s.Summary.AbsentCount, s.Summary.LateCount,
			s.Summary.AttendanceRate, s.Summary.AbsenteeRate)
	}

	fmt.Fprintln(out, "\nRecords")
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTUDENT\tCLASS\tSTATUS\tIN\tOUT\tREMARKS\tBY")
	for _, r := range s.Records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.StudentName, r.ClassName, r.Status, deref(r.TimeIn), deref(r.TimeOut), r.Remarks, r.MarkedBy)
	}
	w.Flush()

	if s.ClassID == "" {
		return
	}
	if s.RecordsStale {
		fmt.Fprintln(out, "\nRoster unavailable: records for this date and class could not be loaded")
		return
	}

	unmarked := map[int]bool{}
	for _, st := range ctrl.Unmarked() {
		unmarked[st.StudentID] = true
	}
	roster := ctrl.Roster()
	sort.SliceStable(roster, func(i, j int) bool { return roster[i].RollNumber < roster[j].RollNumber })

	fmt.Fprintf(out, "\nRoster (%d unmarked)\n", len(unmarked))
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tROLL\tNAME\tMARKED")
	for _, st := range roster {
		marked := "yes"
		if unmarked[st.StudentID] {
			marked = "no"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", st.StudentID, st.RollNumber, st.Name, marked)
	}
	w.Flush()
}

func deref(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
