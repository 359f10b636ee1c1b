package sqlinline

const QInsertNotification = `--sql 18c47d2d-97f8-41d5-b279-5d7c73ba4440
insert into notifications (id, user_id, title, message, severity, related_type, related_id, read, created_at)
values ($1::uuid, $2::uuid, $3::text, $4::text, $5::text, $6::text, $7::text, false, now());
`

const QListNotifications = `--sql 6aeeed77-630d-41e5-aeb8-8a875bc9abe9
select id, user_id, title, message, severity, related_type, related_id, read, created_at
from notifications
where user_id = $1::uuid
order by created_at desc
limit $2::int;
`

const QMarkNotificationRead = `--sql 2016fe34-48bb-4ff6-a652-c825c3ecf3c0
update notifications
set read = true
where id = $1::uuid and user_id = $2::uuid;
`

const QEnqueueOutbox = `--sql aa1a9faa-045f-40a7-be45-287a7cbcb07d
insert into outbox (id, topic, payload, attempts, created_at)
values (gen_random_uuid(), $1::text, $2::jsonb, 0, now());
`

const QSelectOutboxPending = `--sql 68e5949f-f0eb-4410-a19a-b25f85a77928
select id, topic, payload, attempts, created_at, dispatched_at
from outbox
where dispatched_at is null and attempts < 10
order by created_at asc
limit $1::int
for update skip locked;
`

const QMarkOutboxDispatched = `--sql 5a918b94-f926-406a-9c4f-a7761d2b1a99
update outbox
set dispatched_at = now()
where id = $1::uuid;
`

const QMarkOutboxFailed = `--sql a8a6c22f-918c-4907-ad56-729b7de485aa
update outbox
set attempts = attempts + 1
where id = $1::uuid;
`

const QInsertActivity = `--sql 46c8d7fd-588a-4101-9a3a-d0033f30428d
insert into admin_activity (id, admin_id, action, details, country, created_at)
values ($1::uuid, $2::uuid, $3::text, coalesce($4::jsonb, '{}'::jsonb), $5::text, now());
`
