// Package domain defines the core business entities of the task-management
// application: users, tasks, and their validation rules. Entities here carry
// no persistence or transport concerns.
package domain
