package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm/logger"

	"github.com/mrlokans/registrar/internal/audit"
	"github.com/mrlokans/registrar/internal/config"
	"github.com/mrlokans/registrar/internal/database"
	dbaudit "github.com/mrlokans/registrar/internal/database/audit"
	"github.com/mrlokans/registrar/internal/database/courses"
	"github.com/mrlokans/registrar/internal/database/enrolments"
	"github.com/mrlokans/registrar/internal/database/students"
	"github.com/mrlokans/registrar/internal/export"
)

// ExportCommand writes the roster workbook to a file.
type ExportCommand struct {
	DatabasePath string
	OutputPath   string
	Verbose      bool
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the registrar database file")
	fs.StringVar(&cmd.OutputPath, "output", "", "Output .xlsx path (default: roster-YYYYMMDD.xlsx)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print per-sheet row counts")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export students, courses and enrolments to an XLSX workbook.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.OutputPath == "" {
		cmd.OutputPath = fmt.Sprintf("roster-%s.xlsx", time.Now().Format("20060102"))
	}
	if filepath.Ext(cmd.OutputPath) != ".xlsx" {
		return fmt.Errorf("output file must have the .xlsx extension: %s", cmd.OutputPath)
	}

	return nil
}

func (cmd *ExportCommand) Run() error {
	if _, err := os.Stat(cmd.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("database not found: %s", cmd.DatabasePath)
	}

	db, err := database.Open(cmd.DatabasePath, database.Options{LogLevel: logger.Silent})
	if err != nil {
		return err
	}
	defer db.Close()

	auditService := audit.NewService(dbaudit.NewRepository(db.DB))
	defer auditService.Wait()

	roster, err := export.Load(
		students.NewRepository(db.DB),
		courses.NewRepository(db.DB),
		enrolments.NewRepository(db.DB),
	)
	if err == nil {
		err = cmd.write(roster)
	}
	if err != nil {
		auditService.LogExport(0, "CLI roster export failed", err)
		return err
	}

	auditService.LogExport(0, fmt.Sprintf("CLI export to %s", filepath.Base(cmd.OutputPath)), nil)

	fmt.Printf("Exported roster to %s\n", cmd.OutputPath)
	if cmd.Verbose {
		fmt.Printf("  %-10s %d\n", export.SheetStudents, len(roster.Students))
		fmt.Printf("  %-10s %d\n", export.SheetCourses, len(roster.Courses))
		fmt.Printf("  %-10s %d\n", export.SheetEnrolments, len(roster.Enrolments))
	}
	return nil
}

func (cmd *ExportCommand) write(roster export.Roster) error {
	out, err := os.Create(cmd.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := export.Write(out, roster); err != nil {
		out.Close()
		os.Remove(cmd.OutputPath)
		return err
	}
	return out.Close()
}
