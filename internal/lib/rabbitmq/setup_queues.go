package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.confirmation", RoutingKey: "confirmation"},
		// при необходимости дополнительные очереди для других воркеров
	}
}
