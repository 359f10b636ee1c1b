package sqlinline

const QInsertUser = `--sql a7e3ec77-2502-4065-b124-c84da3a9dca3
insert into users (id, email, password_hash, role, active, verified, failed_logins, token_version, created_at, updated_at)
values ($1::uuid, lower($2::text), $3::text, $4::text, true, false, 0, 0, now(), now())
returning created_at, updated_at;
`

const QSelectUserByID = `--sql f7eb1eff-c889-4d6f-9514-06d020defc84
select id, email, password_hash, role, active, verified, failed_logins, locked_until, token_version, created_at, updated_at
from users
where id = $1::uuid;
`

const QSelectUserByEmail = `--sql c7690605-a276-4a60-9e95-389f29b82a63
select id, email, password_hash, role, active, verified, failed_logins, locked_until, token_version, created_at, updated_at
from users
where email = lower($1::text);
`

const QRecordLoginFailure = `--sql ba491d95-f346-44ad-bb91-5e9cb9cceb84
update users
set failed_logins = failed_logins + 1,
    locked_until = coalesce($2::timestamptz, locked_until),
    updated_at = now()
where id = $1::uuid;
`

const QResetLoginFailures = `--sql 88c79d39-6b37-4e9e-b3ac-6be2ca079716
update users
set failed_logins = 0,
    locked_until = null,
    updated_at = now()
where id = $1::uuid;
`

const QBumpTokenVersion = `--sql 81cc4a2d-266c-49db-b665-5da91eeb6f78
update users
set token_version = token_version + 1,
    updated_at = now()
where id = $1::uuid;
`

const QSetUserActive = `--sql d50e3d1a-c577-4c50-aecb-7d0fb521774e
update users
set active = $2::bool,
    updated_at = now()
where id = $1::uuid;
`

const QSelectTokenVersion = `--sql bf95edb6-4e02-4d82-ba97-787de4170571
select token_version
from users
where id = $1::uuid and active;
`

const QUpdatePassword = `--sql 0325b830-85ad-4129-9bc8-b3df6d06aa2a
update users
set password_hash = $2::text,
    updated_at = now()
where id = $1::uuid;
`
