package main

// Register all domain source prototypes.
import (
	_ "github.com/maniraj0007/task-management-app-sub004/pkg/domains/projects"
	_ "github.com/maniraj0007/task-management-app-sub004/pkg/domains/tasks"
	_ "github.com/maniraj0007/task-management-app-sub004/pkg/domains/teams"
	_ "github.com/maniraj0007/task-management-app-sub004/pkg/domains/users"
)
