package common

type UpdateType string

// Request methods of the daemon socket.
const (
	UPDATE_ADD     UpdateType = "add"
	UPDATE_EDIT    UpdateType = "edit"
	UPDATE_TOGGLE  UpdateType = "toggle"
	UPDATE_DELETE  UpdateType = "delete"
	UPDATE_LIST    UpdateType = "list"
	UPDATE_ACK     UpdateType = "ack"
	UPDATE_STATUS  UpdateType = "status"
	UPDATE_LOGIN   UpdateType = "login"
	UPDATE_LOGOUT  UpdateType = "logout"
	UPDATE_WATCH   UpdateType = "watch"
	UPDATE_VERSION UpdateType = "version"
)

// Updates pushed to watching connections.
const (
	UPDATE_ALARM_FIRED    UpdateType = "alarm.fired"
	UPDATE_ALARM_SILENCED UpdateType = "alarm.silenced"
	UPDATE_TASKS_CHANGED  UpdateType = "tasks.changed"
	UPDATE_NOTIFICATION   UpdateType = "notification.show"
)
