package sqlinline

const paymentColumns = `id, donor_id, student_id, scholarship_id, application_id,
    amount_cents, method, external_txn_id, status, history, created_at`

const QInsertPayment = `--sql ca088176-06c3-460f-a221-7a8a6f169025
insert into payments (
    id, donor_id, student_id, scholarship_id, application_id,
    amount_cents, method, external_txn_id, status, history, created_at
)
values ($1::uuid, $2::uuid, $3::uuid, $4::uuid, $5::uuid,
        $6::bigint, $7::text, $8::text, $9::text, $10::jsonb, now())
returning created_at;
`

const QSelectPaymentByID = `--sql 7528a89d-9437-4c84-91c2-612260220c90
select ` + paymentColumns + `
from payments
where id = $1::uuid;
`

const QSelectPaymentByExternalTxn = `--sql 0e8044bb-67ad-4b3d-ad60-375104e2ff2f
select ` + paymentColumns + `
from payments
where external_txn_id = $1::text;
`

const QListPaymentsByDonor = `--sql 4c8e511e-e497-4c85-a8d5-b4cfac8f5f5c
select ` + paymentColumns + `
from payments
where donor_id = $1::uuid
order by created_at desc
limit $2::int;
`

const QAppendPaymentEvent = `--sql cf23361f-dd8c-4397-adb6-2f8b77dfddda
update payments
set status = $2::text,
    history = history || $3::jsonb
where id = $1::uuid;
`
