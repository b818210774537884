package cli

import (
	"flag"
	"fmt"
	"os"

	"gorm.io/gorm/logger"

	"github.com/mrlokans/registrar/internal/auth"
	"github.com/mrlokans/registrar/internal/config"
	"github.com/mrlokans/registrar/internal/database"
	"github.com/mrlokans/registrar/internal/database/users"
)

// CreateUserCommand adds a user for AUTH_MODE=local without going through the API.
type CreateUserCommand struct {
	DatabasePath string
	Username     string
	Email        string
	Password     string
	Role         string
	BcryptCost   int
}

func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the registrar database file")
	fs.StringVar(&cmd.Username, "username", "", "Login name (required)")
	fs.StringVar(&cmd.Email, "email", "", "Email address (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password, at least 12 characters (defaults to $REGISTRAR_PASSWORD)")
	fs.StringVar(&cmd.Role, "role", "admin", "Role: admin, editor or viewer")
	fs.IntVar(&cmd.BcryptCost, "bcrypt-cost", 12, "bcrypt cost factor")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user -username <name> -email <email> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user for AUTH_MODE=local.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  REGISTRAR_PASSWORD=... %s create-user -username registrar -email office@example.com -role editor\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Password == "" {
		cmd.Password = os.Getenv("REGISTRAR_PASSWORD")
	}
	if cmd.Username == "" {
		return fmt.Errorf("required flag -username not provided")
	}
	if cmd.Email == "" {
		return fmt.Errorf("required flag -email not provided")
	}
	if cmd.Password == "" {
		return fmt.Errorf("password not provided: use -password or REGISTRAR_PASSWORD")
	}
	if _, err := auth.ParseRole(cmd.Role); err != nil {
		return err
	}

	return nil
}

func (cmd *CreateUserCommand) Run() error {
	role, err := auth.ParseRole(cmd.Role)
	if err != nil {
		return err
	}

	db, err := database.Open(cmd.DatabasePath, database.Options{LogLevel: logger.Silent})
	if err != nil {
		return err
	}
	defer db.Close()

	service := auth.NewService(users.NewRepository(db.DB), config.Auth{
		Mode:       config.AuthModeLocal,
		BcryptCost: cmd.BcryptCost,
	})

	user, err := service.CreateUser(cmd.Username, cmd.Email, cmd.Password, role)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Created %s user %q (id %d)\n", user.Role, user.Username, user.ID)
	return nil
}
