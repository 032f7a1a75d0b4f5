// Package timezone keeps the location used to stamp and render journal times.
//
//	timezone.Init(cfg.App.Timezone)
//	now := timezone.Now()
//	formatted := timezone.Format(entry.CreatedAt, constant.DateFormat)
//
// Only IANA names are accepted ("UTC", "Africa/Accra", "Europe/London").
// Until Init runs every function works in UTC.
package timezone
