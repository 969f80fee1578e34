package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	accountDomain "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/domain"
	accountUsecase "github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/account/usecase"
)

// OwnerInput carries the bootstrap account details. Empty fields are
// prompted for interactively.
type OwnerInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// RunCreateOwner provisions the first Owner account for a fresh deployment.
// The account is created active with a verified email so the owner can log
// in immediately and manage everything else through the admin API.
//
// Requirements: Database must be migrated and accessible.
func RunCreateOwner(
	ctx context.Context,
	accountUseCase accountUsecase.UseCase,
	logger *slog.Logger,
	io IOTuple,
	input OwnerInput,
	format string,
) error {
	if err := promptForOwnerInput(io, &input); err != nil {
		return err
	}

	logger.Info("creating owner account", slog.String("email", input.Email))

	// The bootstrap caller carries the Owner role so the role guard admits
	// an Owner-level assignment. It exists only for this command; the API
	// offers no path to mint an Owner.
	bootstrapCaller := &accountDomain.Account{Role: accountDomain.RoleOwner}

	account, err := accountUseCase.Create(ctx, bootstrapCaller, accountUsecase.CreateAccountInput{
		Email:     input.Email,
		Username:  input.Username,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      int(accountDomain.RoleOwner),
	})
	if err != nil {
		return fmt.Errorf("failed to create owner account: %w", err)
	}

	if format == "json" {
		if err := outputOwnerJSON(io.Writer, account); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	} else {
		outputOwnerText(io.Writer, account)
	}

	logger.Info("owner account created",
		slog.Int64("account_id", account.ID),
		slog.String("email", account.Email),
	)

	return nil
}

// promptForOwnerInput asks for any detail not already supplied via flags.
func promptForOwnerInput(io IOTuple, input *OwnerInput) error {
	prompts := []struct {
		label string
		value *string
	}{
		{"Email", &input.Email},
		{"Username", &input.Username},
		{"Password", &input.Password},
		{"First name", &input.FirstName},
		{"Last name", &input.LastName},
	}

	var reader *bufio.Reader
	for _, p := range prompts {
		if *p.value != "" {
			continue
		}
		if reader == nil {
			reader = bufio.NewReader(io.Reader)
			_, _ = fmt.Fprintln(io.Writer, "Enter details for the owner account")
		}

		_, _ = fmt.Fprintf(io.Writer, "%s: ", p.label)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", strings.ToLower(p.label), err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return fmt.Errorf("%s cannot be empty", strings.ToLower(p.label))
		}
		*p.value = line
	}

	return nil
}

// outputOwnerText outputs the result in human-readable text format.
func outputOwnerText(writer io.Writer, account *accountDomain.Account) {
	_, _ = fmt.Fprintln(writer, "\nOwner account created successfully!")
	_, _ = fmt.Fprintf(writer, "Account ID: %d\n", account.ID)
	_, _ = fmt.Fprintf(writer, "Email:      %s\n", account.Email)
	_, _ = fmt.Fprintf(writer, "Username:   %s\n", account.Username)
	_, _ = fmt.Fprintf(writer, "Role:       %s\n", account.Role.String())
}

// outputOwnerJSON outputs the result in JSON format for machine consumption.
func outputOwnerJSON(writer io.Writer, account *accountDomain.Account) error {
	result := map[string]interface{}{
		"account_id": account.ID,
		"email":      account.Email,
		"username":   account.Username,
		"role":       account.Role.String(),
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
