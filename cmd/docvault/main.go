package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docvault",
	Short: "DocVault CLI",
	Long:  "A CLI for the DocVault classified document repository.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadConfig()
		// Env var overrides are applied in newClient()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format: table, json, raw")
	rootCmd.PersistentFlags().StringVar(&outputField, "field", "", "Print only this field (use with -format=raw)")

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(docCmd())
	rootCmd.AddCommand(userCmd())
	rootCmd.AddCommand(passwdCmd())
	rootCmd.AddCommand(emergencyUpgradeCmd())
	rootCmd.AddCommand(auditCmd())
	rootCmd.AddCommand(backupCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(healthCmd())
}

// promptLine reads one line from stdin after showing a prompt.
func promptLine(prompt string) string {
	fmt.Print(prompt)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Scan()
	return strings.TrimSpace(scanner.Text())
}

// --- session ---

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and store the session id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				password = promptLine("Password: ")
			}
			client := newClient()
			result, err := client.post("/api/login", map[string]any{
				"username": args[0],
				"password": password,
			})
			if err != nil {
				printError(err.Error())
				return nil
			}
			if sid, ok := result["session_id"].(string); ok {
				cfg.Session = sid
				if err := saveConfig(); err == nil {
					fmt.Fprintln(os.Stderr, "Session saved to config.")
				}
			}
			if user, ok := result["user"].(map[string]any); ok {
				printResult(user)
				return nil
			}
			printResult(result)
			return nil
		},
	}
	cmd.Flags().String("password", "", "Password (prompted when omitted)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session id",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Session = ""
			if err := saveConfig(); err != nil {
				printError(err.Error())
				return nil
			}
			printSuccess("Session cleared.")
			return nil
		},
	}
}

// --- doc ---

func docCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "doc", Short: "Work with documents"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List documents visible at your level",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			docs, err := client.getList("/api/documents")
			if err != nil {
				printError(err.Error())
				return nil
			}
			printRows(docs, "id", "filename", "permission", "created_at", "created_by")
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Read a document, content included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			result, err := client.get("/api/documents/" + args[0])
			if err != nil {
				printError(err.Error())
				return nil
			}
			printResult(result)
			return nil
		},
	}

	putCmd := &cobra.Command{
		Use:   "put <filename>",
		Short: "Create a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, _ := cmd.Flags().GetString("content")
			file, _ := cmd.Flags().GetString("file")
			permission, _ := cmd.Flags().GetString("permission")
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					printError(err.Error())
					return nil
				}
				content = string(data)
			}
			client := newClient()
			result, err := client.post("/api/documents", map[string]any{
				"filename":   args[0],
				"content":    content,
				"permission": permission,
			})
			if err != nil {
				printError(err.Error())
				return nil
			}
			printResult(result)
			return nil
		},
	}
	putCmd.Flags().String("content", "", "Document content")
	putCmd.Flags().String("file", "", "Read content from this file")
	putCmd.Flags().String("permission", "normal", "Permission level: normal, confidential, top_secret, special")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			result, err := client.delete("/api/documents/" + args[0])
			if err != nil {
				printError(err.Error())
				return nil
			}
			printResult(result)
			return nil
		},
	}

	cmd.AddCommand(listCmd, getCmd, putCmd, deleteCmd)
	return cmd
}

// --- user ---

func userCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "user", Short: "User administration"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List other users",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			users, err := client.getList("/api/users")
			if err != nil {
				printError(err.Error())
				return nil
			}
			printRows(users, "id", "username", "permission", "can_upgrade")
			return nil
		},
	}

	setPermCmd := &cobra.Command{
		Use:   "set-permission <id> <permission>",
		Short: "Change a user's permission level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			result, err := client.put("/api/users/"+args[0]+"/permission", map[string]any{
				"permission": args[1],
			})
			if err != nil {
				printError(err.Error())
				return nil
			}
			printResult(result)
			return nil
		},
	}

	cmd.AddCommand(listCmd, setPermCmd)
	return cmd
}

// --- passwd ---

func passwdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		RunE: func(cmd *cobra.Command, args []string) error {
			oldPw := promptLine("Current password: ")
			newPw := promptLine("New password: ")
			confirm := promptLine("Confirm new password: ")
			client := newClient()
			result, err := client.post("/api/change-password", map[string]any{
				"old_password":     oldPw,
				"new_password":     newPw,
				"confirm_password": confirm,
			})
			if err != nil {
				printError(err.Error())
				return nil
			}
			if msg, ok := result["message"].(string); ok {
				printSuccess(msg)
				return nil
			}
			printResult(result)
			return nil
		},
	}
}

// --- emergency upgrade ---

func emergencyUpgradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emergency-upgrade",
		Short: "Upgrade the current session to special using the emergency password",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, _ := cmd.Flags().GetString("secret")
			if secret == "" {
				secret = promptLine("Emergency password: ")
			}
			client := newClient()
			result, err := client.post("/api/emergency-upgrade", map[string]any{
				"session_id":         client.session,
				"emergency_password": secret,
			})
			if err != nil {
				printError(err.Error())
				return nil
			}
			printResult(result)
			return nil
		},
	}
	cmd.Flags().String("secret", "", "Emergency password (prompted when omitted)")
	return cmd
}

// --- audit / backup / stats / health ---

func auditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Show the recent audit trail",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			entries, err := client.getList("/api/audit-logs")
			if err != nil {
				printError(err.Error())
				return nil
			}
			printRows(entries, "timestamp", "username", "action", "details", "ip")
			return nil
		},
	}
}

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Export a full backup on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			result, err := client.get("/api/backup")
			if err != nil {
				printError(err.Error())
				return nil
			}
			printResult(result)
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show repository statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			result, err := client.get("/api/stats")
			if err != nil {
				printError(err.Error())
				return nil
			}
			printResult(result)
			return nil
		},
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			result, err := client.get("/api/health")
			if err != nil {
				printError(err.Error())
				return nil
			}
			printResult(result)
			return nil
		},
	}
}
