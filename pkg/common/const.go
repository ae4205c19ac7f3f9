package common

const (
	KEY_LOG_HOOK_SEND_ALERT = "send_alert"
)

const (
	KEY_EXECUTION_RECORD = "execution:%s"
)
