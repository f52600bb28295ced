package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ruleforge/ruleforge/internal/model"
	"github.com/spf13/cobra"
)

var initOutputDir string

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init <domain>",
	Short: "Scaffold a new policy project",
	Long: `Init creates a project directory with starter files for a domain:
- norms.txt: plain-language norms the generator turns into a policy
- cases.json: labeled test cases for the test command
- config.json: project metadata

Known domains (content-moderation, code-review) get realistic sample
content; any other domain gets a generic skeleton.

Example:
  ruleforge init content-moderation
  ruleforge init code-review --output ./policies/review`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initOutputDir, "output", "o", "", "project directory (default: ./ruleforge-<domain>)")
}

func runInit(cmd *cobra.Command, args []string) error {
	domain := args[0]

	projectDir := initOutputDir
	if projectDir == "" {
		projectDir = "ruleforge-" + domain
	}
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		return fmt.Errorf("create project directory: %w", err)
	}

	normsPath := filepath.Join(projectDir, "norms.txt")
	if err := os.WriteFile(normsPath, []byte(sampleNorms(domain)), 0o644); err != nil {
		return err
	}

	casesPath := filepath.Join(projectDir, "cases.json")
	casesData, err := json.MarshalIndent(sampleCases(domain), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(casesPath, casesData, 0o644); err != nil {
		return err
	}

	projectMeta, err := json.MarshalIndent(map[string]string{
		"domain":  domain,
		"version": "0.1.0",
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(projectDir, "config.json"), projectMeta, 0o644); err != nil {
		return err
	}

	fmt.Printf("Created project in %s\n\n", projectDir)
	fmt.Println("Next steps:")
	fmt.Printf("1. Edit %s with your organizational policies\n", normsPath)
	fmt.Printf("2. Review the test cases in %s\n", casesPath)
	fmt.Printf("3. Run: ruleforge generate --input %s\n", normsPath)
	fmt.Printf("4. Run: ruleforge test --policy %s --cases %s\n",
		filepath.Join(projectDir, "generated", "policy.json"), casesPath)
	return nil
}

// sampleNorms returns starter norms text for the domain
func sampleNorms(domain string) string {
	switch domain {
	case "content-moderation":
		return `Content Moderation Policy

Our platform prohibits:
1. Hate speech targeting individuals or groups based on protected characteristics
2. Harassment including personal attacks, threats, and bullying behavior
3. Explicit content including graphic violence and adult material
4. Spam and misleading information

Generate JSON rules with regex patterns to detect these violations.
Include rationale for each rule and appropriate severity levels.
`
	case "code-review":
		return `Code Review Policy

Security requirements:
1. No hardcoded secrets, API keys, or passwords in source code
2. Proper input validation and sanitization required
3. No use of deprecated or vulnerable functions
4. All database queries must use parameterized statements

Generate JSON rules to automatically detect these security issues.
`
	default:
		return fmt.Sprintf("Sample policy norms for the %s domain.\n\nAdd your specific requirements here.\n", domain)
	}
}

type sampleCaseFile struct {
	TestCases []model.TestCase `json:"test_cases"`
}

// sampleCases returns labeled starter test cases for the domain
func sampleCases(domain string) sampleCaseFile {
	switch domain {
	case "content-moderation":
		return sampleCaseFile{TestCases: []model.TestCase{
			{
				ID:                 "hate_speech_1",
				Text:               "I hate those people, they should all die",
				ExpectedViolations: []string{"hate_speech", "threats"},
				Description:        "Clear hate speech with death threat",
				Category:           "hate_speech",
			},
			{
				ID:                 "clean_content_1",
				Text:               "I love this new feature, great job team!",
				ExpectedViolations: []string{},
				Description:        "Positive, clean content",
				Category:           "clean",
			},
			{
				ID:                 "harassment_1",
				Text:               "You're stupid @user stop posting here nobody likes you",
				ExpectedViolations: []string{"harassment", "personal_attacks"},
				Description:        "Personal attack and harassment",
				Category:           "harassment",
			},
		}}
	case "code-review":
		return sampleCaseFile{TestCases: []model.TestCase{
			{
				ID:                 "hardcoded_secret_1",
				Text:               "API_KEY = 'sk-1234567890abcdef'",
				ExpectedViolations: []string{"hardcoded_secrets"},
				Description:        "Hardcoded API key",
				Category:           "security",
			},
			{
				ID:                 "clean_code_1",
				Text:               "def calculate_sum(a, b):\n    return a + b",
				ExpectedViolations: []string{},
				Description:        "Clean, simple function",
				Category:           "clean",
			},
		}}
	default:
		return sampleCaseFile{TestCases: []model.TestCase{
			{
				ID:                 "sample_1",
				Text:               "Sample text for testing",
				ExpectedViolations: []string{},
				Description:        "Generic sample case",
				Category:           "general",
			},
		}}
	}
}
