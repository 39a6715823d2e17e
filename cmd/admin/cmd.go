package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/gdg-garage/campus-events/internal/database"
	"github.com/gdg-garage/campus-events/internal/handlers"
	"github.com/gdg-garage/campus-events/internal/models"
	"gorm.io/gorm"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db  *gorm.DB
	out io.Writer
	now func() time.Time
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate - create or update the database tables")
	fmt.Fprintln(cli.out, "  seed - replace the campus data with the demo dataset")
	fmt.Fprintln(cli.out, "  apikey -discord-id ID -name NAME [-username USERNAME] - create an admin API key")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	apiKeyCmd := flag.NewFlagSet("apikey", flag.ContinueOnError)
	apiKeyCmd.SetOutput(cli.out)
	apiKeyDiscordID := apiKeyCmd.String("discord-id", "", "Discord user id of the admin. The admin is created when missing.")
	apiKeyName := apiKeyCmd.String("name", "", "Label for the new key.")
	apiKeyUsername := apiKeyCmd.String("username", "", "Username stored for a newly created admin.")

	switch args[1] {
	case "migrate":
		if err := database.Migrate(cli.db); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "Migrations applied")
		return nil
	case "seed":
		sum, err := database.Seed(cli.db, cli.now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Seeded %s\n", sum)
		return nil
	case "apikey":
		if err := apiKeyCmd.Parse(args[2:]); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return errHelp
			}
			return err
		}
		if *apiKeyDiscordID == "" || *apiKeyName == "" {
			apiKeyCmd.Usage()
			return errHelp
		}
		key, err := cli.createAPIKey(*apiKeyDiscordID, *apiKeyUsername, *apiKeyName)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "API key %q created. Store it now, it is not shown again:\n%s\n", *apiKeyName, key)
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) createAPIKey(discordID, username, name string) (string, error) {
	key, err := handlers.GenerateAPIKey()
	if err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}

	err = cli.db.Transaction(func(tx *gorm.DB) error {
		admin := models.Admin{DiscordID: discordID}
		if err := tx.Where(models.Admin{DiscordID: discordID}).Attrs(models.Admin{Username: username}).FirstOrCreate(&admin).Error; err != nil {
			return fmt.Errorf("find or create admin %s: %w", discordID, err)
		}
		apiKey := models.APIKey{AdminID: admin.ID, Key: key, Name: name}
		if err := tx.Create(&apiKey).Error; err != nil {
			return fmt.Errorf("create api key: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return key, nil
}
