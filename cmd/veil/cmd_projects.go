package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veildata/veil"
)

var projectsFlags struct {
	configPath  string
	description string
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage projects on the remote service",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE:  runProjectsList,
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsCreate,
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsDelete,
}

func init() {
	projectsCmd.PersistentFlags().StringVarP(&projectsFlags.configPath, "config", "c", "", "Client config file (YAML)")
	projectsCreateCmd.Flags().StringVarP(&projectsFlags.description, "description", "d", "", "Project description")

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsCreateCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)
}

func newClient() (*veil.Client, error) {
	config, err := loadClientConfig(projectsFlags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return veil.NewClient(config)
}

func runProjectsList(cmd *cobra.Command, _ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	projects, err := client.ListProjects(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, p := range projects {
		fmt.Fprintf(out, "%s\t%s\t%s\n", p.Id, p.Name, p.Created.Format("2006-01-02"))
	}
	return nil
}

func runProjectsCreate(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	project, err := client.CreateProject(cmd.Context(), args[0], projectsFlags.description)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", project.Name, project.Id)
	return nil
}

func runProjectsDelete(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	if err := client.DeleteProject(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
	return nil
}
