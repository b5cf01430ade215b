package models

// VehicleLocationEvent is emitted on every simulation tick.
type VehicleLocationEvent struct {
	Timestamp          int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType          string  `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	RunID              string  `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	VehicleID          string  `json:"vehicleId" parquet:"name=vehicleId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Step               int32   `json:"step" parquet:"name=step,type=INT32"`
	ProgressPercent    int32   `json:"progressPercent" parquet:"name=progressPercent,type=INT32"`
	EstimatedTimeLabel string  `json:"estimatedTimeLabel" parquet:"name=estimatedTimeLabel,type=BYTE_ARRAY,convertedtype=UTF8"`
	Lat                float64 `json:"lat" parquet:"name=lat,type=DOUBLE"`
	Lon                float64 `json:"lon" parquet:"name=lon,type=DOUBLE"`
}

// DeliveryStatusEvent is emitted when a run changes phase.
type DeliveryStatusEvent struct {
	Timestamp          int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType          string `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	RunID              string `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Phase              string `json:"phase" parquet:"name=phase,type=BYTE_ARRAY,convertedtype=UTF8"`
	PreviousPhase      string `json:"previousPhase" parquet:"name=previousPhase,type=BYTE_ARRAY,convertedtype=UTF8"`
	ProgressPercent    int32  `json:"progressPercent" parquet:"name=progressPercent,type=INT32"`
	EstimatedTimeLabel string `json:"estimatedTimeLabel" parquet:"name=estimatedTimeLabel,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// OrderPlacedEvent is emitted when checkout completes.
type OrderPlacedEvent struct {
	Timestamp      int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType      string  `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderID        string  `json:"orderId" parquet:"name=orderId,type=BYTE_ARRAY,convertedtype=UTF8"`
	CustomerEmail  string  `json:"customerEmail" parquet:"name=customerEmail,type=BYTE_ARRAY,convertedtype=UTF8"`
	DeliveryMethod string  `json:"deliveryMethod" parquet:"name=deliveryMethod,type=BYTE_ARRAY,convertedtype=UTF8"`
	PaymentMethod  string  `json:"paymentMethod" parquet:"name=paymentMethod,type=BYTE_ARRAY,convertedtype=UTF8"`
	ItemCount      int32   `json:"itemCount" parquet:"name=itemCount,type=INT32"`
	TotalAmount    float64 `json:"totalAmount" parquet:"name=totalAmount,type=DOUBLE"`
	Status         string  `json:"status" parquet:"name=status,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// NotificationEvent carries a shopper-facing confirmation message.
type NotificationEvent struct {
	Timestamp   int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType   string `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	Title       string `json:"title" parquet:"name=title,type=BYTE_ARRAY,convertedtype=UTF8"`
	Description string `json:"description" parquet:"name=description,type=BYTE_ARRAY,convertedtype=UTF8"`
}
