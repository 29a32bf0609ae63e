// Package agents holds the GraphBus agents: Registration, Auth,
// TaskManager and Notification. Agents never call each other directly;
// all coordination goes through published events.
package agents

// Topic namespaces: the auth agents own /Auth/*, TaskManager owns
// /Tasks/*. Payload shapes are documented per topic and are advisory —
// the bus does not enforce them.
const (
	// TopicUserRegistered carries {user_id, email, name}.
	TopicUserRegistered = "/Auth/UserRegistered"
	// TopicLoginSucceeded carries {user_id, email}.
	TopicLoginSucceeded = "/Auth/LoginSucceeded"
	// TopicTaskCreated carries {task_id, title, user_id}.
	TopicTaskCreated = "/Tasks/Created"
	// TopicTaskUpdated carries {task_id, title, done}.
	TopicTaskUpdated = "/Tasks/Updated"
	// TopicTaskDeleted carries {task_id, user_id}.
	TopicTaskDeleted = "/Tasks/Deleted"
)
