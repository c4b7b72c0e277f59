package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcuslira2/task-manager-front/internal/controller"
	"github.com/marcuslira2/task-manager-front/internal/models"
	"github.com/marcuslira2/task-manager-front/internal/query"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		sortField, _ := cmd.Flags().GetString("sort")
		order, _ := cmd.Flags().GetString("order")
		search, _ := cmd.Flags().GetString("search")
		statusFlag, _ := cmd.Flags().GetString("status")

		var status *models.Status
		if statusFlag != "" {
			parsed, err := models.ParseStatus(statusFlag)
			if err != nil {
				return err
			}
			status = &parsed
		}

		dir := query.Ascending
		if order == "desc" {
			dir = query.Descending
		}

		state := query.NewState(app.Config.PageSize)
		state.SetSearch(search)
		state.SetStatusFilter(status)
		if sortField != "" {
			state.SetSort(sortField, dir)
		}
		state.SetPage(page, size)

		ctrl := controller.NewListController(state, app.Tasks, app.Config.DebounceInterval, app.Log)
		defer ctrl.Close()

		var err error
		if status != nil {
			err = ctrl.OnStatusChange(cmd.Context(), status)
		} else {
			err = ctrl.Refresh(cmd.Context())
		}
		if err != nil {
			return err
		}

		renderTasks(ctrl.Tasks())
		fmt.Printf("\nPage %d (%d per page), %d task(s) in total\n", page, size, ctrl.Total())
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new task",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := taskFromFlags(cmd, models.Task{})
		if err != nil {
			return err
		}

		editor := controller.NewEditController(app.Tasks, nil, app.Log)
		saved, err := editor.Save(cmd.Context(), task)
		if err != nil {
			return err
		}
		if saved.Persisted() {
			fmt.Printf("Created task #%d\n", saved.ID)
		}
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a task's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid task id %q", args[0])
		}

		task, err := taskFromFlags(cmd, models.Task{ID: id})
		if err != nil {
			return err
		}

		editor := controller.NewEditController(app.Tasks, nil, app.Log)
		if _, err := editor.Save(cmd.Context(), task); err != nil {
			return err
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid task id %q", args[0])
		}

		app.Confirmer.AssumeYes, _ = cmd.Flags().GetBool("yes")
		title, _ := cmd.Flags().GetString("title")

		return app.Tasks.Delete(cmd.Context(), models.Task{ID: id, Title: title})
	},
}

func init() {
	listCmd.Flags().Int("page", 0, "zero-based page number")
	listCmd.Flags().Int("size", query.DefaultPageSize, "page size")
	listCmd.Flags().String("sort", "", "sort field (title, status, createDate, deadLine)")
	listCmd.Flags().String("order", "asc", "sort direction (asc or desc)")
	listCmd.Flags().String("search", "", "filter by title substring")
	listCmd.Flags().String("status", "", "filter by status (PENDING, IN_PROGRESS, COMPLETED)")

	for _, cmd := range []*cobra.Command{createCmd, updateCmd} {
		cmd.Flags().String("title", "", "task title")
		cmd.Flags().String("description", "", "task description")
		cmd.Flags().String("status", "", "task status (defaults to PENDING on create)")
		cmd.Flags().String("deadline", "", "deadline (YYYY-MM-DD or RFC3339)")
		_ = cmd.MarkFlagRequired("title")
		_ = cmd.MarkFlagRequired("deadline")
	}
	_ = updateCmd.MarkFlagRequired("status")

	deleteCmd.Flags().Bool("yes", false, "skip the confirmation prompt")
	deleteCmd.Flags().String("title", "", "task title shown in the confirmation prompt")
}

func taskFromFlags(cmd *cobra.Command, base models.Task) (models.Task, error) {
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	statusFlag, _ := cmd.Flags().GetString("status")
	deadlineFlag, _ := cmd.Flags().GetString("deadline")

	base.Title = title
	base.Description = description

	if statusFlag != "" {
		status, err := models.ParseStatus(statusFlag)
		if err != nil {
			return models.Task{}, err
		}
		base.Status = status
	}

	deadline, err := parseDeadline(deadlineFlag)
	if err != nil {
		return models.Task{}, err
	}
	base.DeadLine = deadline
	return base, nil
}

func parseDeadline(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid deadline %q: use YYYY-MM-DD or RFC3339", s)
}

func renderTasks(tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tDEADLINE\tDESCRIPTION")
	for _, t := range tasks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			t.ID, t.Title, t.Status, t.DeadLine.Local().Format("2006-01-02 15:04"), t.Description)
	}
	w.Flush()
}
